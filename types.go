package pagebuilder

import (
	"github.com/a-h/templ"

	"github.com/eringen/pagebuilder/builder"
)

// Dashboard is the data behind the admin template list.
type Dashboard struct {
	Templates   []builder.Template
	Message     string
	CSRFToken   string
	CreateToken string
}

// BuilderScreen is the data behind the template editing screen.
type BuilderScreen struct {
	Template    builder.Template
	Palette     templ.Component
	Blocks      templ.Component
	CSRFToken   string
	UpdateToken string
	DeleteToken string
}
