package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/eringen/pagebuilder"
	"github.com/eringen/pagebuilder/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "init":
		err = runInit(os.Args[2:])
	case "version", "--version":
		fmt.Printf("pagebuilder %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(args []string) error {
	var configPath, addr, dbPath, logLevel string
	flagSet := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	flagSet.StringVar(&addr, "addr", "", "listen address (overrides the config file)")
	flagSet.StringVar(&dbPath, "db", "", "SQLite database path (overrides the config file)")
	flagSet.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	var cfg pagebuilder.SiteConfig
	if configPath != "" {
		var err error
		if cfg, err = pagebuilder.LoadConfigFile(configPath); err != nil {
			return err
		}
	}
	cfg.AdminPassword = pagebuilder.EnvOr("PAGEBUILDER_ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.SessionSecret = pagebuilder.EnvOr("PAGEBUILDER_SESSION_SECRET", cfg.SessionSecret)
	cfg.TokenSecret = pagebuilder.EnvOr("PAGEBUILDER_TOKEN_SECRET", cfg.TokenSecret)
	if flagSet.Changed("addr") {
		cfg.Addr = addr
	}
	if flagSet.Changed("db") {
		cfg.DatabasePath = dbPath
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	app := pagebuilder.New(cfg, views.Default(cfg))
	app.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("service", "pagebuilder").Logger()
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	app.Logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Echo.Shutdown(shutdownCtx)
}

func printUsage() {
	fmt.Println(`pagebuilder - A drag-and-drop page builder built with Go, Echo, and templ

Usage:
  pagebuilder <command> [arguments]

Commands:
  serve [flags]   Run the site and admin builder
  init <name>     Create a project directory with a starter config
  version         Print the pagebuilder version
  help            Show this help message

Serve flags:
  -c, --config    YAML configuration file
      --addr      listen address
      --db        SQLite database path
      --log-level debug, info, warn or error

Environment:
  PAGEBUILDER_ADMIN_PASSWORD, PAGEBUILDER_SESSION_SECRET and
  PAGEBUILDER_TOKEN_SECRET override the config file.

Examples:
  pagebuilder init mysite
  pagebuilder serve --config mysite/pagebuilder.yaml`)
}
