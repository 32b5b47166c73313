// Package blocks provides the block types that ship with the page builder:
// a markdown text block and a column container.
package blocks

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/pagebuilder/builder"
)

// Register adds every built-in block type to r.
func Register(r *builder.Registry) error {
	if err := r.Register(TextID, NewText()); err != nil {
		return err
	}
	return r.Register(ColumnID, NewColumn())
}

// normalizeSize rewrites size as span<n> with n clamped to the grid.
// A size without a usable width falls back to def.
func normalizeSize(size, def string) string {
	w := builder.ColumnWidth(size)
	if w == 0 {
		return def
	}
	if w > builder.GridColumns {
		w = builder.GridColumns
	}
	return "span" + strconv.Itoa(w)
}

// fieldName is the form name of a block field: blocks[<number>][<field>].
func fieldName(inst builder.Instance, field string) string {
	return "blocks[" + strconv.Itoa(inst.Number) + "][" + field + "]"
}

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) str(parts ...string) {
	for _, p := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.w, p)
	}
}

func (w *writer) component(ctx context.Context, c templ.Component) {
	if w.err != nil || c == nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

func attr(s string) string {
	return templ.EscapeString(s)
}

// editor writes the shared frame of a block editor: the drag bar, the
// engine-owned hidden fields, and body between them.
func editor(inst builder.Instance, label string, body func(ctx context.Context, w *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.str(`<li id="template-block-`, strconv.Itoa(inst.Number), `" class="block block-`, attr(inst.IDBase), ` `, attr(inst.Size), `">`)
		w.str(`<dl class="block-bar"><dt class="block-handle"><span class="block-title">`, attr(label), `</span>`)
		w.str(`<span class="block-size">`, attr(inst.Size), `</span></dt></dl>`)
		w.str(`<div class="block-settings">`)
		body(ctx, w)
		for _, f := range []struct{ name, value string }{
			{"number", strconv.Itoa(inst.Number)},
			{"id_base", inst.IDBase},
			{"parent", strconv.Itoa(inst.Parent)},
			{"size", inst.Size},
			{"order", strconv.Itoa(inst.Order)},
		} {
			w.str(`<input type="hidden" class="`, f.name, `" name="`, attr(fieldName(inst, f.name)), `" value="`, attr(f.value), `">`)
		}
		w.str(`</div></li>`)
		return w.err
	})
}
