package pdf

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"creerlio-backend/internal/businesses"
	"creerlio-backend/internal/ingest"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("pdf").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/*.html.tmpl"),
)

// ResumeHTML renders a normalized resume as a printable HTML page.
func ResumeHTML(rec ingest.Record) (string, error) {
	return execute("resume.html.tmpl", newResumeView(rec))
}

// BusinessHTML renders a business profile as a printable HTML page.
func BusinessHTML(b businesses.Business) (string, error) {
	return execute("business.html.tmpl", newBusinessView(b))
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
