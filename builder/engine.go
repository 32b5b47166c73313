package builder

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/eringen/pagebuilder/codec"
)

// Engine loads, reconciles and renders templates. It holds no per-template
// state; every call re-validates the template id it is given.
type Engine struct {
	blocks    BlockStore
	templates TemplateRepository
	handlers  Resolver
	auth      Authorizer
	log       zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for reconciliation and storage diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// NewEngine wires an Engine to its collaborators.
func NewEngine(blocks BlockStore, templates TemplateRepository, handlers Resolver, auth Authorizer, opts ...Option) *Engine {
	e := &Engine{
		blocks:    blocks,
		templates: templates,
		handlers:  handlers,
		auth:      auth,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsValidTemplate reports whether id references a published template.
func (e *Engine) IsValidTemplate(ctx context.Context, id int64) bool {
	_, err := e.Template(ctx, id)
	if err != nil && !errors.Is(err, ErrInvalidTemplate) {
		e.log.Warn().Err(err).Int64("template", id).Msg("template lookup failed")
	}
	return err == nil
}

// Template returns the template entity for id, or ErrInvalidTemplate when
// id is missing, not a template, or not published.
func (e *Engine) Template(ctx context.Context, id int64) (Template, error) {
	if id <= 0 {
		return Template{}, ErrInvalidTemplate
	}
	t, err := e.templates.GetTemplate(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Template{}, ErrInvalidTemplate
	}
	if err != nil {
		return Template{}, fmt.Errorf("builder: get template %d: %w", id, err)
	}
	if !t.Usable() {
		return Template{}, ErrInvalidTemplate
	}
	return t, nil
}

// LoadBlocks returns the template's blocks sorted by Order. Blocks with equal
// Order keep their storage order. A template without blocks yields an empty
// slice.
func (e *Engine) LoadBlocks(ctx context.Context, id int64) ([]Instance, error) {
	if _, err := e.Template(ctx, id); err != nil {
		return nil, err
	}
	blocks, err := e.storedBlocks(ctx, id)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Order < blocks[j].Order
	})
	return blocks, nil
}

// storedBlocks decodes every block entry in storage order. Entries that do
// not decode are skipped.
func (e *Engine) storedBlocks(ctx context.Context, id int64) ([]Instance, error) {
	all, err := e.blocks.GetAll(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("builder: load blocks of %d: %w", id, err)
	}
	blocks := make([]Instance, 0, len(all))
	for _, m := range all {
		if !IsBlockKey(m.Key) {
			continue
		}
		var inst Instance
		if err := codec.Unmarshal(m.Value, &inst); err != nil {
			e.log.Debug().Err(err).Int64("template", id).Str("key", m.Key).Msg("skipping undecodable block")
			continue
		}
		inst.Key = m.Key
		blocks = append(blocks, inst)
	}
	return blocks, nil
}

func (e *Engine) storedInstance(ctx context.Context, id int64, key string) (Instance, error) {
	raw, ok, err := e.blocks.Get(ctx, id, key)
	if err != nil || !ok {
		return Instance{}, err
	}
	var inst Instance
	if err := codec.Unmarshal(raw, &inst); err != nil {
		e.log.Debug().Err(err).Int64("template", id).Str("key", key).Msg("previous block undecodable")
		return Instance{}, nil
	}
	inst.Key = key
	return inst, nil
}

// Reconcile replaces the template's stored blocks with submitted.
//
// The title is renamed first. Each submitted block is then sanitized by its
// handler, when one is registered, against the instance previously stored
// under its incoming Number (block_0 when it has none). Blocks are stored at
// block_1..block_N in submission order with Number rewritten to match;
// a Parent naming a submitted block's incoming Number follows that block to
// its new number. Stored blocks not rewritten by this pass are deleted.
func (e *Engine) Reconcile(ctx context.Context, id int64, token, title string, submitted []Instance) error {
	if _, err := e.Template(ctx, id); err != nil {
		return err
	}
	if !e.auth.VerifyMutationToken(ActionUpdate, token) {
		return ErrUnauthorized
	}

	if err := e.templates.RenameTemplate(ctx, id, title); err != nil {
		return fmt.Errorf("builder: rename template %d: %w", id, err)
	}

	// Previous instances are read before anything is written, so a block
	// moved onto a lower number still sees its own prior value.
	olds := make([]Instance, len(submitted))
	for i, next := range submitted {
		if _, ok := e.handlers.Resolve(next.IDBase); !ok {
			continue
		}
		old, err := e.storedInstance(ctx, id, BlockKey(next.Number))
		if err != nil {
			return fmt.Errorf("builder: read block %d of %d: %w", next.Number, id, err)
		}
		olds[i] = old
	}

	renumbered := make(map[int]int, len(submitted))
	for i, next := range submitted {
		if next.Number == 0 {
			continue
		}
		if _, dup := renumbered[next.Number]; !dup {
			renumbered[next.Number] = i + 1
		}
	}

	seen := make(map[string]struct{}, len(submitted))
	for i, next := range submitted {
		number := i + 1
		newKey := BlockKey(number)
		if p, ok := renumbered[next.Parent]; ok && next.Parent != 0 {
			next.Parent = p
		}

		if h, ok := e.handlers.Resolve(next.IDBase); ok {
			next.TemplateID = id
			next = h.Update(next, olds[i])
		}
		next.Number = number
		next.Key = newKey

		value, err := codec.Marshal(next)
		if err != nil {
			return fmt.Errorf("builder: encode %s: %w", newKey, err)
		}
		if err := e.blocks.Set(ctx, id, newKey, value); err != nil {
			return fmt.Errorf("builder: store %s of %d: %w", newKey, id, err)
		}
		seen[newKey] = struct{}{}
	}

	all, err := e.blocks.GetAll(ctx, id)
	if err != nil {
		return fmt.Errorf("builder: list blocks of %d: %w", id, err)
	}
	deleted := 0
	for _, m := range all {
		if !IsBlockKey(m.Key) {
			continue
		}
		if _, ok := seen[m.Key]; ok {
			continue
		}
		if err := e.blocks.Delete(ctx, id, m.Key); err != nil {
			return fmt.Errorf("builder: delete %s of %d: %w", m.Key, id, err)
		}
		e.log.Debug().Int64("template", id).Str("key", m.Key).Msg("deleted orphaned block")
		deleted++
	}

	e.log.Info().Int64("template", id).Int("stored", len(submitted)).Int("deleted", deleted).Msg("template updated")
	return nil
}

// ListTemplates returns the published templates ordered by title.
func (e *Engine) ListTemplates(ctx context.Context) ([]Template, error) {
	return e.templates.ListTemplates(ctx)
}

// CreateTemplate creates a published template and returns its id.
func (e *Engine) CreateTemplate(ctx context.Context, token, title string) (int64, error) {
	if !e.auth.VerifyMutationToken(ActionCreate, token) {
		return 0, ErrUnauthorized
	}
	return e.templates.CreateTemplate(ctx, title)
}

// DeleteTemplate hard-deletes a template and its blocks.
func (e *Engine) DeleteTemplate(ctx context.Context, id int64, token string) error {
	if _, err := e.Template(ctx, id); err != nil {
		return err
	}
	if !e.auth.VerifyMutationToken(ActionDelete, token) {
		return ErrUnauthorized
	}
	return e.templates.DeleteTemplate(ctx, id, true)
}
