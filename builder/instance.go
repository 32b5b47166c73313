package builder

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// KeyPrefix marks block entries in a template's key/value storage.
const KeyPrefix = "block_"

// GridColumns is the width of one row in the layout grid.
const GridColumns = 12

// Instance is one configured placement of a block type within a template.
//
// The typed fields are the ones the engine itself reads. Everything a block
// handler owns lives in Fields and is only validated by that handler's Update.
type Instance struct {
	Key        string         `cbor:"-"`
	Number     int            `cbor:"number"`
	IDBase     string         `cbor:"id_base"`
	Parent     int            `cbor:"parent"`
	Size       string         `cbor:"size"`
	Order      int            `cbor:"order"`
	TemplateID int64          `cbor:"template_id,omitempty"`
	Fields     map[string]any `cbor:"fields,omitempty"`

	// First is set by AnnotateRows on blocks that open a new grid row.
	First bool `cbor:"-"`
}

// BlockKey returns the storage key for sequence number n.
func BlockKey(n int) string {
	return KeyPrefix + strconv.Itoa(n)
}

// IsBlockKey reports whether key names a block entry (block_<digits>).
func IsBlockKey(key string) bool {
	rest, ok := strings.CutPrefix(key, KeyPrefix)
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// TopLevel reports whether the instance is outside any container block.
func (i Instance) TopLevel() bool {
	return i.Parent == 0
}

// Width returns the column span encoded in Size.
func (i Instance) Width() int {
	return ColumnWidth(i.Size)
}

// Field returns a handler field as a string, or "" when absent.
func (i Instance) Field(name string) string {
	v, ok := i.Fields[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ColumnWidth strips every non-digit from size and parses the rest.
// Anything unparseable yields 0.
func ColumnWidth(size string) int {
	var b strings.Builder
	for _, r := range size {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// InstanceFromMap builds an Instance from a submitted key/value record.
// The engine-owned fields are lifted out; "key" and "template_id" are
// dropped, and every other entry lands in Fields untouched.
func InstanceFromMap(m map[string]any) Instance {
	inst := Instance{Fields: make(map[string]any)}
	for k, v := range m {
		switch k {
		case "number":
			inst.Number = toInt(v)
		case "id_base":
			inst.IDBase = strings.TrimSpace(toString(v))
		case "parent":
			inst.Parent = toInt(v)
		case "size":
			inst.Size = toString(v)
		case "order":
			inst.Order = toInt(v)
		case "key", "template_id":
		default:
			inst.Fields[k] = v
		}
	}
	if len(inst.Fields) == 0 {
		inst.Fields = nil
	}
	return inst
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		if n == math.Trunc(n) {
			return int(n)
		}
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed
		}
	}
	return 0
}
