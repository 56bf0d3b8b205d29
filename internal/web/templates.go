package web

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Presentation handles all view-related logic and template rendering
type Presentation struct {
	tmpl *template.Template
}

// NewPresentation parses the embedded templates.
func NewPresentation() (*Presentation, error) {
	tmpl := template.New("base").Funcs(template.FuncMap{
		"plural": func(n int, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
	})

	tmpl, err := tmpl.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Presentation{tmpl: tmpl}, nil
}
