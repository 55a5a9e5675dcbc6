// Package views renders the dashboard's HTML pages from embedded templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageDashboard = "dashboard.html"
	PageQuery     = "query.html"
)

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{PageDashboard, PageQuery} {
		pages[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
}

// DashboardData fills the general dashboard page. Plots are keyed q1,
// q2_day, q2_hour, q3 and q4.
type DashboardData struct {
	Title    string
	Fallback bool
	Plots    map[string]template.HTML
}

// QueryData fills a single query page.
type QueryData struct {
	Title    string
	Question string
	Query    string
	Fallback bool
	Plot     template.HTML
	Table    template.HTML
}

// Render writes page to w. A partial render writes only the page content,
// without the surrounding shell.
func Render(w io.Writer, page string, data any, partial bool) error {
	tmpl, ok := pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	name := "layout"
	if partial {
		name = "content"
	}
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	return nil
}
