// Package views provides the stock page builder screens. Sites that want
// their own look pass a different pagebuilder.ViewFuncs to pagebuilder.New.
package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/pagebuilder"
	"github.com/eringen/pagebuilder/builder"
)

// Default returns the stock views for cfg.
func Default(cfg pagebuilder.SiteConfig) pagebuilder.ViewFuncs {
	return pagebuilder.ViewFuncs{
		Page: func(t builder.Template, body templ.Component, siteName string) templ.Component {
			return Page(cfg, t, body, siteName)
		},
		AdminLogin:     AdminLogin,
		AdminDashboard: AdminDashboard,
		AdminBuilder:   AdminBuilder,
		NotFound:       NotFound,
		ServerError:    ServerError,
	}
}

// Page renders a template body as a public page.
func Page(cfg pagebuilder.SiteConfig, t builder.Template, body templ.Component, siteName string) templ.Component {
	meta := PageMeta{
		Title:       t.Title + " | " + siteName,
		Description: cfg.Description,
		URL:         pagebuilder.TemplateURL(cfg.URL, t.ID),
		OGType:      "website",
	}
	return layout(meta, func(p *page) {
		p.raw(`<main class="container">`)
		p.component(body)
		p.raw(`</main>`)
	})
}

// AdminLogin renders the password form.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	return layout(PageMeta{Title: "Log in"}, func(p *page) {
		p.raw(`<main class="admin admin-login"><h1>Log in</h1>`)
		if showError {
			p.raw(`<p class="error">Wrong password.</p>`)
		}
		p.raw(`<form method="post" action="/admin/login/">`)
		csrfField(p, csrfToken)
		p.raw(`<label>Password <input type="password" name="password" autofocus></label>`,
			`<button type="submit">Log in</button></form></main>`)
	})
}

// AdminDashboard lists the templates and offers the create form.
func AdminDashboard(d pagebuilder.Dashboard) templ.Component {
	return layout(PageMeta{Title: "Templates"}, func(p *page) {
		p.raw(`<main class="admin admin-dashboard"><h1>Templates</h1>`)
		if d.Message != "" {
			p.raw(`<p class="notice">`)
			p.text(d.Message)
			p.raw(`</p>`)
		}

		p.raw(`<form method="post" action="/admin/templates/" class="create-template">`)
		csrfField(p, d.CSRFToken)
		p.raw(`<input type="hidden" name="_nonce" value="`, templ.EscapeString(d.CreateToken), `">`,
			`<label>New template <input type="text" name="title" required></label>`,
			`<button type="submit">Create</button></form>`)

		if len(d.Templates) == 0 {
			p.raw(`<p>No templates yet.</p>`)
		} else {
			p.raw(`<ul class="template-list">`)
			for _, t := range d.Templates {
				id := strconv.FormatInt(t.ID, 10)
				p.raw(`<li><a href="/admin/templates/`, id, `/">`)
				p.text(t.Title)
				p.raw(`</a> <a class="preview" href="/templates/`, id, `/">Preview</a></li>`)
			}
			p.raw(`</ul>`)
		}

		p.raw(`<form method="post" action="/admin/logout/">`)
		csrfField(p, d.CSRFToken)
		p.raw(`<button type="submit">Log out</button></form></main>`)
	})
}

// AdminBuilder renders the block palette beside the editing area of one
// template.
func AdminBuilder(s pagebuilder.BuilderScreen) templ.Component {
	id := strconv.FormatInt(s.Template.ID, 10)
	return layout(PageMeta{Title: "Edit " + s.Template.Title}, func(p *page) {
		p.raw(`<main class="admin admin-builder row">`,
			`<aside class="span3 first"><h2>Blocks</h2><ul id="block-palette" class="blocks palette">`)
		p.component(s.Palette)
		p.raw(`</ul></aside>`)

		p.raw(`<section class="span9"><form id="template-form" method="post" action="/admin/templates/`, id, `/">`)
		csrfField(p, s.CSRFToken)
		p.raw(`<input type="hidden" name="_nonce" value="`, templ.EscapeString(s.UpdateToken), `">`,
			`<input type="text" name="title" class="template-title" value="`, templ.EscapeString(s.Template.Title), `">`,
			`<ul id="template-blocks" class="blocks" data-parent="0">`)
		p.component(s.Blocks)
		p.raw(`</ul><button type="submit">Save template</button></form>`)

		p.raw(`<button type="button" class="delete-template" data-url="/admin/templates/`, id, `/"`,
			` data-csrf="`, templ.EscapeString(s.CSRFToken), `"`,
			` data-token="`, templ.EscapeString(s.DeleteToken), `">Delete template</button>`,
			`<script>`, deleteScript, `</script>`,
			`</section></main>`)
	})
}

const deleteScript = `document.querySelectorAll(".delete-template").forEach(function(b){b.addEventListener("click",function(){if(!confirm("Delete this template?"))return;fetch(b.dataset.url,{method:"DELETE",headers:{"X-CSRF-Token":b.dataset.csrf,"X-Action-Token":b.dataset.token}}).then(function(r){if(r.ok)location.href="/admin/?msg=deleted"})})});`

// NotFound renders the 404 page.
func NotFound() templ.Component {
	return layout(PageMeta{Title: "Not found"}, func(p *page) {
		p.raw(`<main class="container"><h1>Not found</h1><p>The page you asked for does not exist.</p></main>`)
	})
}

// ServerError renders the 500 page.
func ServerError() templ.Component {
	return layout(PageMeta{Title: "Error"}, func(p *page) {
		p.raw(`<main class="container"><h1>Something went wrong</h1><p>Please try again later.</p></main>`)
	})
}

func csrfField(p *page, token string) {
	p.raw(`<input type="hidden" name="_csrf" value="`, templ.EscapeString(token), `">`)
}
