package api

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/MikeSquared-Agency/wedsum/internal/analyzer"
)

//go:embed templates/*.html
var templateFS embed.FS

type pages struct {
	tmpl *template.Template
}

type indexView struct {
	Provider   string
	Diagnostic string
}

type resultView struct {
	Filename string
	Outcome  *analyzer.Outcome
}

func loadPages() *pages {
	return &pages{tmpl: template.Must(template.ParseFS(templateFS, "templates/*.html"))}
}

// render executes into a buffer first so a template error never produces a
// half-written page.
func (p *pages) render(w http.ResponseWriter, code int, name string, data any) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("failed to render page", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	buf.WriteTo(w)
}
