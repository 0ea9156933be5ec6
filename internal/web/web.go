// Package web holds the HTML pages served by the shortener.
package web

import (
	"embed"
	"html/template"

	"github.com/Kosench/go-shortlink/internal/model"
	"github.com/Kosench/go-shortlink/internal/shortcode"
)

const (
	IndexTemplate = "index.html"
	StatsTemplate = "stats.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded pages. Names are the file base names.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

type IndexPage struct {
	Flash     string
	Link      *model.LinkResponse
	MinLength int
	MaxLength int
}

func NewIndexPage(flash string, link *model.LinkResponse) IndexPage {
	return IndexPage{
		Flash:     flash,
		Link:      link,
		MinLength: shortcode.MinLength,
		MaxLength: shortcode.MaxLength,
	}
}

type StatsPage struct {
	Link *model.LinkResponse
	Home string
}
