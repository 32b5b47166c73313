package builder

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/pagebuilder/codec"
)

// memStore keeps per-template entries in insertion order, updating values
// in place like the sqlite store does.
type memStore struct {
	entries map[int64][]Meta
	sets    int
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[int64][]Meta)}
}

func (m *memStore) GetAll(_ context.Context, id int64) ([]Meta, error) {
	out := make([]Meta, len(m.entries[id]))
	copy(out, m.entries[id])
	return out, nil
}

func (m *memStore) Get(_ context.Context, id int64, key string) ([]byte, bool, error) {
	for _, e := range m.entries[id] {
		if e.Key == key {
			return e.Value, true, nil
		}
	}
	return nil, false, nil
}

func (m *memStore) Set(_ context.Context, id int64, key string, value []byte) error {
	m.sets++
	for i, e := range m.entries[id] {
		if e.Key == key {
			m.entries[id][i].Value = value
			return nil
		}
	}
	m.entries[id] = append(m.entries[id], Meta{Key: key, Value: value})
	return nil
}

func (m *memStore) Delete(_ context.Context, id int64, key string) error {
	kept := m.entries[id][:0]
	for _, e := range m.entries[id] {
		if e.Key != key {
			kept = append(kept, e)
		}
	}
	m.entries[id] = kept
	return nil
}

func (m *memStore) put(id int64, key string, inst Instance) {
	value, err := codec.Marshal(inst)
	if err != nil {
		panic(err)
	}
	m.entries[id] = append(m.entries[id], Meta{Key: key, Value: value})
}

func (m *memStore) keys(id int64) []string {
	var keys []string
	for _, e := range m.entries[id] {
		keys = append(keys, e.Key)
	}
	return keys
}

type memRepo struct {
	next      int64
	templates map[int64]Template
}

func newMemRepo() *memRepo {
	return &memRepo{next: 1, templates: make(map[int64]Template)}
}

func (r *memRepo) add(kind, title, status string) int64 {
	id := r.next
	r.next++
	r.templates[id] = Template{ID: id, Kind: kind, Title: title, Status: status}
	return id
}

func (r *memRepo) CreateTemplate(_ context.Context, title string) (int64, error) {
	for _, t := range r.templates {
		if t.Kind == KindTemplate && t.Title == title {
			return 0, ErrDuplicateTitle
		}
	}
	return r.add(KindTemplate, title, StatusPublished), nil
}

func (r *memRepo) RenameTemplate(_ context.Context, id int64, title string) error {
	t := r.templates[id]
	t.Title = title
	r.templates[id] = t
	return nil
}

func (r *memRepo) DeleteTemplate(_ context.Context, id int64, _ bool) error {
	delete(r.templates, id)
	return nil
}

func (r *memRepo) GetTemplate(_ context.Context, id int64) (Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return Template{}, ErrNotFound
	}
	return t, nil
}

func (r *memRepo) ListTemplates(_ context.Context) ([]Template, error) {
	var out []Template
	for _, t := range r.templates {
		if t.Usable() {
			out = append(out, t)
		}
	}
	return out, nil
}

type tokenAuth string

func (a tokenAuth) VerifyMutationToken(action, token string) bool {
	return token == string(a)+":"+action
}

// upperHandler uppercases the "text" field and remembers the old instance it
// was given.
type upperHandler struct {
	olds []Instance
}

func (h *upperHandler) Update(next, old Instance) Instance {
	h.olds = append(h.olds, old)
	if next.Fields == nil {
		next.Fields = map[string]any{}
	}
	next.Fields["text"] = strings.ToUpper(next.Field("text"))
	return next
}

func (h *upperHandler) Form(inst Instance) templ.Component {
	return rawHTML("<form data-block=\"" + inst.IDBase + "\">" + inst.Field("text") + "</form>")
}

func (h *upperHandler) Render(inst Instance) templ.Component {
	return rawHTML("<div class=\"" + ColumnClass(inst) + "\">" + inst.Field("text") + "</div>")
}

type boxHandler struct{ upperHandler }

func (h *boxHandler) RenderContainer(inst Instance, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		io.WriteString(w, "<section class=\""+ColumnClass(inst)+"\">")
		if err := children.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</section>")
		return err
	})
}

func (h *boxHandler) FormContainer(inst Instance, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		io.WriteString(w, "<fieldset data-block=\""+inst.IDBase+"\">")
		if err := children.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</fieldset>")
		return err
	})
}

func (h *boxHandler) Defaults() Instance {
	return Instance{Size: "span12"}
}

func rawHTML(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func renderString(c templ.Component) string {
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		panic(err)
	}
	return b.String()
}
