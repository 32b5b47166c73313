// Package pagebuilder is a drag-and-drop page builder built with Go, Echo,
// and templ. Administrators compose page templates out of nested blocks;
// the front end renders each published template as a 12-column grid.
//
// Users provide their own templ views via the ViewFuncs struct and register
// their own block types in a builder.Registry; pagebuilder handles the
// handler logic, middleware, and database operations.
package pagebuilder

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eringen/pagebuilder/blocks"
	"github.com/eringen/pagebuilder/builder"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages.
type ViewFuncs struct {
	// Page wraps a rendered template body for the front end.
	Page           func(t builder.Template, body templ.Component, siteName string) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(d Dashboard) templ.Component
	AdminBuilder   func(s BuilderScreen) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central pagebuilder application. It wires together the store,
// engine, cache, handlers, middleware, and user-provided templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Engine   *builder.Engine
	Registry *builder.Registry
	Cache    *TemplateCache
	Tokens   *ActionTokens
	Views    ViewFuncs
	Logger   zerolog.Logger

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		Logger:    zerolog.New(os.Stderr).With().Timestamp().Logger(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store and wires the engine, cache and routes without
// starting the server.
func (a *App) Init() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("pagebuilder: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("pagebuilder: SessionSecret is required")
	}

	level, err := zerolog.ParseLevel(a.Config.LogLevel)
	if err != nil {
		return fmt.Errorf("pagebuilder: log level: %w", err)
	}
	a.Logger = a.Logger.Level(level)

	if a.Registry == nil {
		a.Registry = builder.NewRegistry()
		if err := blocks.Register(a.Registry); err != nil {
			return fmt.Errorf("pagebuilder: register blocks: %w", err)
		}
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("pagebuilder: init store: %w", err)
	}
	a.Store = store

	a.Tokens = NewActionTokens(a.Config.TokenSecret, a.Config.TokenTTL)
	a.Engine = builder.NewEngine(store.Blocks(), store, a.Registry, a.Tokens,
		builder.WithLogger(a.Logger.With().Str("component", "builder").Logger()))
	a.Cache = NewTemplateCache(a.Engine, a.Config.TemplateCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Logger.Info().Str("addr", a.Config.Addr).Msg("page builder listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded framework assets, falling through to the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/pagebuilder.css", echo.WrapHandler(http.StripPrefix("/public", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/templates/:id/", a.handleTemplate)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)

	templates := e.Group("/admin/templates", requireAdmin)
	templates.POST("/", a.handleAdminCreate)
	templates.GET("/:id/", a.handleAdminBuilder)
	templates.POST("/:id/", a.handleAdminUpdate)
	templates.DELETE("/:id/", a.handleAdminDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("pagebuilder: required environment variable %s is not set", key)
	}
	return v
}
