package builder

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

const (
	emptyTemplateText = "This template is empty"
	emptyEditorText   = "Drag block items from the left into this area to begin building your template."
)

// Render returns the front-end markup of a template: a row wrapper holding
// every resolvable top-level block, each flagged for row starts.
func (e *Engine) Render(ctx context.Context, id int64) (templ.Component, error) {
	blocks, err := e.LoadBlocks(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return emptyNotice(emptyTemplateText), nil
	}

	top := AnnotateRows(e.resolvable(id, blocks, 0))
	parts := make([]templ.Component, 0, len(top))
	for _, inst := range top {
		parts = append(parts, e.expand(id, inst, blocks, map[int]bool{}, false))
	}
	return wrapper(id, parts), nil
}

// EditorForm returns the builder-screen editors of a template's top-level
// blocks. Containers receive the editors of their nested blocks.
func (e *Engine) EditorForm(ctx context.Context, id int64) (templ.Component, error) {
	blocks, err := e.LoadBlocks(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return emptyNotice(emptyEditorText), nil
	}

	var parts []templ.Component
	for _, inst := range e.resolvable(id, blocks, 0) {
		parts = append(parts, e.expand(id, inst, blocks, map[int]bool{}, true))
	}
	return join(parts), nil
}

// Palette renders a blank editor for every registered block type, in the
// order names lists them.
func (e *Engine) Palette(names []string) templ.Component {
	var parts []templ.Component
	for _, name := range names {
		h, ok := e.handlers.Resolve(name)
		if !ok {
			continue
		}
		inst := Instance{IDBase: name}
		if d, ok := h.(Defaulter); ok {
			inst = d.Defaults()
			inst.IDBase = name
		}
		parts = append(parts, h.Form(inst))
	}
	return join(parts)
}

// resolvable returns blocks under parent whose type has a handler, with the
// template id filled in.
func (e *Engine) resolvable(id int64, blocks []Instance, parent int) []Instance {
	var out []Instance
	for _, inst := range blocks {
		if inst.Parent != parent {
			continue
		}
		if _, ok := e.handlers.Resolve(inst.IDBase); !ok {
			continue
		}
		inst.TemplateID = id
		out = append(out, inst)
	}
	return out
}

// expand renders inst as output, or as an editor when form is set, nesting
// the blocks a container owns. visited holds the container numbers on the
// current path so a parent cycle stops instead of recursing forever.
func (e *Engine) expand(id int64, inst Instance, all []Instance, visited map[int]bool, form bool) templ.Component {
	h, _ := e.handlers.Resolve(inst.IDBase)
	c, ok := h.(Container)
	if !ok || inst.Number == 0 || visited[inst.Number] {
		if form {
			return h.Form(inst)
		}
		return h.Render(inst)
	}
	visited[inst.Number] = true
	defer delete(visited, inst.Number)

	var children []templ.Component
	for _, child := range e.resolvable(id, all, inst.Number) {
		children = append(children, e.expand(id, child, all, visited, form))
	}
	if form {
		return c.FormContainer(inst, join(children))
	}
	return c.RenderContainer(inst, join(children))
}

func wrapper(id int64, parts []templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tid := strconv.FormatInt(id, 10)
		if _, err := io.WriteString(w, `<div id="template-wrapper-`+tid+`" class="template-wrapper row">`); err != nil {
			return err
		}
		if err := join(parts).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func emptyNotice(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<p class="empty-template">`+templ.EscapeString(text)+`</p>`)
		return err
	})
}

func join(parts []templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, p := range parts {
			if err := p.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// ColumnClass returns the grid classes for a block: its span, plus "first"
// when it opens a row.
func ColumnClass(inst Instance) string {
	class := "span" + strconv.Itoa(inst.Width())
	if inst.First {
		class += " first"
	}
	return class
}
