// Package markup renders extracted text and layout regions into a standalone
// HTML document.
//
// The output is a pure function of its inputs: the same text and regions
// always produce byte-identical markup. Text is rendered once, globally; the
// regions become empty, explicitly sized placeholders.
package markup

import (
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/ivlev/sketch2html/internal/analyzer"
)

const (
	// Title is the document title.
	Title = "Generated Layout"
	// Heading precedes the extracted text.
	Heading = "Extracted Content"
	// Breakpoint is the viewport width (px) below which region padding shrinks.
	Breakpoint = 768
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

var page = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

type pageData struct {
	Title   string
	Heading string
	Text    string
	Regions []analyzer.Region
}

// Render writes the document for text and regions to w.
func Render(w io.Writer, text string, regions []analyzer.Region) error {
	return page.Execute(w, pageData{
		Title:   Title,
		Heading: Heading,
		Text:    text,
		Regions: regions,
	})
}

// Synthesize returns the document for text and regions.
func Synthesize(text string, regions []analyzer.Region) string {
	var sb strings.Builder
	if err := Render(&sb, text, regions); err != nil {
		// strings.Builder never fails; only a broken template gets here
		panic("markup: " + err.Error())
	}
	return sb.String()
}
