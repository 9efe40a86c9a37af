package templates

import (
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

func page(title string, body func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>%s</title>", template.HTMLEscapeString(title)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, pageStyle); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</head><body>"); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

const pageStyle = `<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
h1 { font-size: 1.4rem; }
.error { color: #a00; border: 1px solid #a00; padding: 1rem; }
.chart { margin-top: 1rem; }
nav a { margin-right: 1rem; }
</style>`

// Landing is the index page shown before any figure exists.
func Landing(fileCount int) templ.Component {
	return page("EC Data Viewer", func(w io.Writer) error {
		_, err := fmt.Fprintf(w,
			"<h1>EC Data Viewer</h1><p>%d files loaded.</p><nav><a href=\"/chart\">Chart</a><a href=\"/export\">Export session</a></nav>",
			fileCount)
		return err
	})
}

// Chart wraps a rendered chart fragment in the page chrome.
func Chart(chart template.HTML, title string) templ.Component {
	return page(title, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<h1>%s</h1><div class=\"chart\">", template.HTMLEscapeString(title)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, string(chart)); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</div>")
		return err
	})
}

// Error renders a failure message in the page chrome.
func Error(message string) templ.Component {
	return page("Error", func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "<div class=\"error\">%s</div>", template.HTMLEscapeString(message))
		return err
	})
}
