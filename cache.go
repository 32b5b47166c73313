package pagebuilder

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/eringen/pagebuilder/builder"
)

// templateLister is the part of the engine the cache reads through.
type templateLister interface {
	ListTemplates(ctx context.Context) ([]builder.Template, error)
}

// TemplateCache is an in-memory cache of the published template list with TTL.
// It only serves listings (sitemap, dashboard); template validity is always
// checked against the store.
type TemplateCache struct {
	mu        sync.RWMutex
	templates []builder.Template
	fetched   time.Time
	ttl       time.Duration
	source    templateLister
}

// NewTemplateCache creates a TemplateCache backed by source.
func NewTemplateCache(source templateLister, ttl time.Duration) *TemplateCache {
	return &TemplateCache{source: source, ttl: ttl}
}

func (c *TemplateCache) valid() bool {
	return c.templates != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *TemplateCache) Invalidate() {
	c.mu.Lock()
	c.templates = nil
	c.mu.Unlock()
}

// ListTemplates returns a copy of the published templates ordered by title.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *TemplateCache) ListTemplates(ctx context.Context) ([]builder.Template, error) {
	c.mu.RLock()
	if c.valid() {
		templates := slices.Clone(c.templates)
		c.mu.RUnlock()
		return templates, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return slices.Clone(c.templates), nil
	}
	templates, err := c.source.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []builder.Template{}
	}
	c.templates = templates
	c.fetched = time.Now()
	return slices.Clone(templates), nil
}
