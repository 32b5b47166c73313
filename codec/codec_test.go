package codec

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name   string         `cbor:"name"`
	Order  int            `cbor:"order"`
	Fields map[string]any `cbor:"fields,omitempty"`
}

func TestMarshalIsDeterministic(t *testing.T) {
	a := record{Name: "text", Order: 2, Fields: map[string]any{"b": "2", "a": "1", "c": "3"}}
	b := record{Name: "text", Order: 2, Fields: map[string]any{"c": "3", "a": "1", "b": "2"}}

	first, err := Marshal(a)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	second, err := Marshal(b)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("encodings differ for equal maps:\n%x\n%x", first, second)
	}
}

func TestUnmarshalNestedMapsUseStringKeys(t *testing.T) {
	in := record{
		Name:   "column",
		Fields: map[string]any{"style": map[string]any{"color": "red"}},
	}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out record
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalRejectsTruncatedInput(t *testing.T) {
	data, err := Marshal(record{Name: "text", Order: 1})
	require.NoError(t, err)

	var out record
	err = Unmarshal(data[:len(data)-2], &out)
	assert.Error(t, err)
}

func TestUnmarshalNumbersIntoAny(t *testing.T) {
	data, err := Marshal(map[string]any{"n": 3, "neg": -2})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, uint64(3), out["n"])
	assert.Equal(t, int64(-2), out["neg"])
}
