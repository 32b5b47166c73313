package blocks

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/pagebuilder/builder"
	"github.com/eringen/pagebuilder/sanitize"
)

// ColumnID is the id_base of the column block.
const ColumnID = "column"

// Column groups nested blocks inside one grid column. Nested blocks carry
// the column's number as their parent.
//
// Fields: "title" (plain text, shown only in the editor).
type Column struct{}

// NewColumn creates the column block handler.
func NewColumn() *Column {
	return &Column{}
}

// Defaults returns the palette instance of the block.
func (c *Column) Defaults() builder.Instance {
	return builder.Instance{Size: "span6"}
}

// Update keeps only the plain-text title.
func (c *Column) Update(next, old builder.Instance) builder.Instance {
	title := strings.TrimSpace(sanitize.StripTags(next.Field("title")))
	if title == "" {
		title = strings.TrimSpace(old.Field("title"))
	}
	next.Fields = map[string]any{"title": title}
	next.Size = normalizeSize(next.Size, "span6")
	return next
}

// Form renders an empty column editor.
func (c *Column) Form(inst builder.Instance) templ.Component {
	return c.FormContainer(inst, nil)
}

// FormContainer renders the column editor with the editors of its nested
// blocks inside its drop area.
func (c *Column) FormContainer(inst builder.Instance, children templ.Component) templ.Component {
	return editor(inst, "Column", func(ctx context.Context, w *writer) {
		w.str(`<p class="description"><label>Title<input type="text" class="input-full" name="`, attr(fieldName(inst, "title")), `" value="`, attr(inst.Field("title")), `"></label></p>`)
		w.str(`<ul class="blocks column-blocks" data-parent="`, strconv.Itoa(inst.Number), `">`)
		w.component(ctx, children)
		w.str(`</ul>`)
	})
}

// Render renders an empty column.
func (c *Column) Render(inst builder.Instance) templ.Component {
	return c.RenderContainer(inst, nil)
}

// RenderContainer renders the column and its nested blocks as a nested row.
func (c *Column) RenderContainer(inst builder.Instance, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.str(`<div id="block-`, strconv.Itoa(inst.Number), `" class="block-column `, attr(builder.ColumnClass(inst)), `"><div class="row">`)
		w.component(ctx, children)
		w.str(`</div></div>`)
		return w.err
	})
}
