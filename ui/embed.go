// Package ui embeds the status page template and its static assets.
package ui

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/smazurov/homeproxy-status/internal/view"
)

//go:embed templates/status.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var statusTemplate = template.Must(template.ParseFS(templateFS, "templates/status.html"))

// RenderStatus writes the HTML status page.
func RenderStatus(w io.Writer, page view.Page) error {
	return statusTemplate.ExecuteTemplate(w, "status.html", page)
}

// StaticHandler serves the CSS and JS assets. Mount it under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
