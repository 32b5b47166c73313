package pagebuilder

import "embed"

// EmbeddedAssets contains static assets shipped with the framework:
// pagebuilder.css (the 12-column row/span grid)
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
