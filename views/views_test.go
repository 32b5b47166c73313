package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/eringen/pagebuilder"
	"github.com/eringen/pagebuilder/builder"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func TestAdminDashboardEscapesTitles(t *testing.T) {
	out := render(t, AdminDashboard(pagebuilder.Dashboard{
		Templates:   []builder.Template{{ID: 7, Title: `<script>alert(1)</script>`}},
		Message:     "saved",
		CSRFToken:   "csrf-tok",
		CreateToken: "create-tok",
	}))

	for _, want := range []string{
		`href="/admin/templates/7/"`,
		`&lt;script&gt;alert(1)&lt;/script&gt;`,
		`name="_nonce" value="create-tok"`,
		`name="_csrf" value="csrf-tok"`,
		`<p class="notice">saved</p>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if strings.Contains(out, "<script>alert") {
		t.Error("template title was not escaped")
	}
}

func TestPageWrapsBody(t *testing.T) {
	cfg := pagebuilder.SiteConfig{URL: "http://example.com", Description: "desc"}
	body := templ.Raw(`<div class="template-wrapper row"></div>`)
	out := render(t, Page(cfg, builder.Template{ID: 3, Title: "About"}, body, "Site"))

	for _, want := range []string{
		`<title>About | Site</title>`,
		`<link rel="canonical" href="http://example.com/templates/3/">`,
		`<link rel="stylesheet" href="/public/pagebuilder.css">`,
		`<main class="container"><div class="template-wrapper row"></div></main>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q:\n%s", want, out)
		}
	}
}

func TestAdminBuilderCarriesTokens(t *testing.T) {
	out := render(t, AdminBuilder(pagebuilder.BuilderScreen{
		Template:    builder.Template{ID: 2, Title: "Home"},
		Palette:     templ.Raw(`<li>palette</li>`),
		Blocks:      templ.Raw(`<li>block</li>`),
		CSRFToken:   "c",
		UpdateToken: "u",
		DeleteToken: "d",
	}))
	for _, want := range []string{
		`action="/admin/templates/2/"`,
		`name="_nonce" value="u"`,
		`data-token="d"`,
		`<ul id="block-palette" class="blocks palette"><li>palette</li></ul>`,
		`<ul id="template-blocks" class="blocks" data-parent="0"><li>block</li></ul>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("builder screen missing %q", want)
		}
	}
}
