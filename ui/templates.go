package ui

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"kwbrowse/domain/keywords"
)

const defaultIntro = `Search the keyword sheet or browse it letter by letter.

Type a keyword to get **"did you mean"** suggestions; open a block to see every keyword under each letter.`

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"nonEmpty": func(c keywords.Column) bool { return len(c.Keywords) > 0 },
		"keywordCount": func(b keywords.Block) int {
			n := 0
			for _, c := range b.Columns {
				n += len(c.Keywords)
			}
			return n
		},
	}
}

// renderMarkdown converts trusted configuration Markdown to HTML.
func renderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}

// renderTemplate executes a template into a buffer first so a failing
// template never leaves a half-written response.
func (a *App) renderTemplate(w http.ResponseWriter, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		a.log.Error("Template error for %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		a.log.Warn("Error writing template response: %v", err)
	}
}
