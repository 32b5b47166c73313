// Package builder composes page templates out of ordered, nested blocks.
//
// A template's blocks live in a key/value BlockStore under keys of the form
// block_<n>. The Engine loads them back in display order, reconciles a freshly
// submitted block list against what is stored, and renders the result as a
// 12-column grid. Block types plug in through the Handler interface and are
// looked up in a Registry by their id_base.
package builder

import (
	"context"
	"errors"

	"github.com/a-h/templ"
)

var (
	// ErrInvalidTemplate is returned when an id does not reference a
	// published template.
	ErrInvalidTemplate = errors.New("builder: invalid template")
	// ErrDuplicateTitle is returned when creating a template whose title is
	// already taken.
	ErrDuplicateTitle = errors.New("builder: template names must be unique, try a different name")
	// ErrUnauthorized is returned when a mutation token does not verify.
	ErrUnauthorized = errors.New("builder: mutation token rejected")
	// ErrNotFound is returned by repositories for a missing entity.
	ErrNotFound = errors.New("builder: not found")
)

// Entity kinds and statuses understood by the engine.
const (
	KindTemplate    = "template"
	StatusPublished = "published"
)

// Mutation actions checked by the Authorizer.
const (
	ActionCreate = "create-template"
	ActionUpdate = "update-template"
	ActionDelete = "delete-template"
)

// Template is a named composition of blocks. Its blocks are not carried on
// the entity; they are reconstructed from the BlockStore.
type Template struct {
	ID     int64
	Kind   string
	Title  string
	Status string
}

// Usable reports whether the entity is a published template.
func (t Template) Usable() bool {
	return t.Kind == KindTemplate && t.Status == StatusPublished
}

// Meta is one raw key/value pair of a template's storage.
type Meta struct {
	Key   string
	Value []byte
}

// BlockStore persists the key/value pairs of one template.
// GetAll returns pairs in storage order.
type BlockStore interface {
	GetAll(ctx context.Context, templateID int64) ([]Meta, error)
	Get(ctx context.Context, templateID int64, key string) ([]byte, bool, error)
	Set(ctx context.Context, templateID int64, key string, value []byte) error
	Delete(ctx context.Context, templateID int64, key string) error
}

// TemplateRepository manages template entities.
// Get returns ErrNotFound when no entity has the id.
type TemplateRepository interface {
	CreateTemplate(ctx context.Context, title string) (int64, error)
	RenameTemplate(ctx context.Context, id int64, title string) error
	DeleteTemplate(ctx context.Context, id int64, hard bool) error
	GetTemplate(ctx context.Context, id int64) (Template, error)
	ListTemplates(ctx context.Context) ([]Template, error)
}

// Authorizer checks the token that accompanies every mutation.
type Authorizer interface {
	VerifyMutationToken(action, token string) bool
}

// Handler is the capability a block type provides.
type Handler interface {
	// Update sanitizes a submitted instance. old is the instance previously
	// stored at the submitted number, or the zero Instance.
	Update(next, old Instance) Instance
	// Form renders the builder-screen editor for the instance.
	Form(inst Instance) templ.Component
	// Render renders the instance on the front end.
	Render(inst Instance) templ.Component
}

// Container is implemented by handlers whose blocks hold nested blocks.
// children renders every resolvable nested block in order, as front-end
// output or as editors respectively.
type Container interface {
	RenderContainer(inst Instance, children templ.Component) templ.Component
	FormContainer(inst Instance, children templ.Component) templ.Component
}

// Defaulter is implemented by handlers that want a non-empty palette entry.
type Defaulter interface {
	Defaults() Instance
}

// Resolver looks up the handler for a block type.
type Resolver interface {
	Resolve(idBase string) (Handler, bool)
}
