package blocks

import (
	"bytes"
	"context"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/eringen/pagebuilder/builder"
	"github.com/eringen/pagebuilder/sanitize"
)

// TextID is the id_base of the text block.
const TextID = "text"

// Text is a block holding an optional heading and a markdown body.
//
// Fields: "title" (plain text) and "text" (markdown).
type Text struct {
	md goldmark.Markdown
}

// NewText creates the text block handler.
func NewText() *Text {
	return &Text{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Defaults returns the palette instance of the block.
func (t *Text) Defaults() builder.Instance {
	return builder.Instance{Size: "span12"}
}

// Update strips markup from the title and HTML the UGC policy rejects from
// the markdown body. A body missing from the submission keeps its previous
// value.
func (t *Text) Update(next, old builder.Instance) builder.Instance {
	fields := make(map[string]any, 2)
	fields["title"] = strings.TrimSpace(sanitize.StripTags(next.Field("title")))
	if _, ok := next.Fields["text"]; ok {
		body := strings.ReplaceAll(next.Field("text"), "\r\n", "\n")
		fields["text"] = html.UnescapeString(sanitize.UGC(body))
	} else {
		fields["text"] = old.Field("text")
	}
	next.Fields = fields
	next.Size = normalizeSize(next.Size, "span12")
	return next
}

// Form renders the block editor.
func (t *Text) Form(inst builder.Instance) templ.Component {
	return editor(inst, "Text", func(ctx context.Context, w *writer) {
		w.str(`<p class="description"><label>Title<input type="text" class="input-full" name="`, attr(fieldName(inst, "title")), `" value="`, attr(inst.Field("title")), `"></label></p>`)
		w.str(`<p class="description"><label>Content<textarea class="textarea-full" rows="5" name="`, attr(fieldName(inst, "text")), `">`, templ.EscapeString(inst.Field("text")), `</textarea></label></p>`)
	})
}

// Render renders the heading and the markdown body inside the block's grid
// column.
func (t *Text) Render(inst builder.Instance) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.str(`<div id="block-`, strconv.Itoa(inst.Number), `" class="block-text `, attr(builder.ColumnClass(inst)), `">`)
		if title := inst.Field("title"); title != "" {
			w.str(`<h3 class="block-title">`, templ.EscapeString(title), `</h3>`)
		}
		body, err := t.markdown(inst.Field("text"))
		if err != nil {
			return err
		}
		w.str(body, `</div>`)
		return w.err
	})
}

// markdown converts src to HTML and passes the result through the UGC
// policy. goldmark already drops raw HTML; the policy also cleans link
// schemes.
func (t *Text) markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := t.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return sanitize.UGC(buf.String()), nil
}
