package pagebuilder

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/pagebuilder/builder"
)

// SiteConfig holds all configuration for a page builder site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Page Builder")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for meta tags

	Addr         string `yaml:"addr"`          // Listen address (default ":3000")
	DatabasePath string `yaml:"database_path"` // SQLite path (default "data/pagebuilder.db")

	AdminPassword string        `yaml:"admin_password"` // Required: admin login password
	SessionSecret string        `yaml:"session_secret"` // Required: session encryption secret
	TokenSecret   string        `yaml:"token_secret"`   // Mutation token key (default SessionSecret)
	TokenTTL      time.Duration `yaml:"token_ttl"`      // Mutation token lifetime (default 12h)
	CookieSecure  bool          `yaml:"cookie_secure"`  // Set true for HTTPS

	TemplateCacheTTL time.Duration `yaml:"template_cache_ttl"` // Template list cache TTL (default 5min)
	LogLevel         string        `yaml:"log_level"`          // zerolog level name (default "info")
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Page Builder"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/pagebuilder.db"
	}
	if c.TokenSecret == "" {
		c.TokenSecret = c.SessionSecret
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 12 * time.Hour
	}
	if c.TemplateCacheTTL == 0 {
		c.TemplateCacheTTL = 5 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// LoadConfigFile reads a YAML site configuration. Durations use Go syntax
// ("12h", "90s").
func LoadConfigFile(path string) (SiteConfig, error) {
	var cfg SiteConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("pagebuilder: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("pagebuilder: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithRegistry replaces the block registry. The default registry holds the
// built-in text and column blocks.
func WithRegistry(r *builder.Registry) Option {
	return func(a *App) {
		a.Registry = r
	}
}
