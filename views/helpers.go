package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// page accumulates markup and the first write error so view bodies can be
// written without checking every call.
type page struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (p *page) raw(parts ...string) {
	for _, s := range parts {
		if p.err != nil {
			return
		}
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *page) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *page) component(c templ.Component) {
	if p.err != nil || c == nil {
		return
	}
	p.err = c.Render(p.ctx, p.w)
}

// view adapts a page body into a templ.Component.
func view(body func(p *page)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{ctx: ctx, w: w}
		body(p)
		return p.err
	})
}

// layout writes the document shell around body.
func layout(meta PageMeta, body func(p *page)) templ.Component {
	return view(func(p *page) {
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`)
		p.text(meta.Title)
		p.raw(`</title>`)
		if meta.Description != "" {
			p.raw(`<meta name="description" content="`, templ.EscapeString(meta.Description), `">`)
		}
		if meta.URL != "" {
			p.raw(`<link rel="canonical" href="`, templ.EscapeString(meta.URL), `">`,
				`<meta property="og:url" content="`, templ.EscapeString(meta.URL), `">`)
		}
		if meta.OGType != "" {
			p.raw(`<meta property="og:type" content="`, templ.EscapeString(meta.OGType), `">`)
		}
		p.raw(`<meta property="og:title" content="`, templ.EscapeString(meta.Title), `">`,
			`<link rel="stylesheet" href="/public/pagebuilder.css">`,
			`</head><body>`)
		body(p)
		p.raw(`</body></html>`)
	})
}
