// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/ManuGH/monograph/internal/monograph"
	"github.com/ManuGH/monograph/internal/styles"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer renders the two fragments of a document.
type Renderer interface {
	RenderHead(w io.Writer, p Page) error
	RenderBody(w io.Writer, p Page) error
}

// TemplateRenderer renders the embedded templates. Body templates are named
// "body/<view>".
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer parses the built-in templates against sheet.
func NewTemplateRenderer(sheet *styles.Sheet) (*TemplateRenderer, error) {
	funcs := template.FuncMap{
		"class":   sheet.Class,
		"content": renderContent,
	}
	tmpl, err := template.New("monograph").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

// RenderHead renders the shared head fragment.
func (r *TemplateRenderer) RenderHead(w io.Writer, p Page) error {
	return r.tmpl.ExecuteTemplate(w, "head", p)
}

// RenderBody renders the body fragment for p.View.
func (r *TemplateRenderer) RenderBody(w io.Writer, p Page) error {
	name := "body/" + p.View
	if r.tmpl.Lookup(name) == nil {
		return fmt.Errorf("unknown view %q", p.View)
	}
	return r.tmpl.ExecuteTemplate(w, name, p)
}

// renderContent passes authored HTML through and escapes everything else.
// The content API is first-party; its HTML is published markup.
func renderContent(c monograph.Content) template.HTML {
	if c.Type == "html" {
		return template.HTML(c.Data) // #nosec G203 -- first-party authored content
	}
	return template.HTML("<p>" + template.HTMLEscapeString(c.Data) + "</p>") // #nosec G203 -- escaped above
}
