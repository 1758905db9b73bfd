package http

import (
	"embed"
	"html/template"

	"story-gen/internal/domain"
)

const (
	pageTemplateName  = "index.html"
	buttonLabelIdle   = "Generate Story"
	buttonLabelActive = "Generating Story..."
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))

type genreOption struct {
	Value    string
	Selected bool
}

// PageData es todo lo que necesita la plantilla de la página.
type PageData struct {
	Token         string
	Keywords      string
	Genres        []genreOption
	InFlight      bool
	ButtonLabel   string
	InFlightLabel string
	HasError      bool
	Error         string
	Paragraphs    []string
}

// newPageData depende solo de la vista; la misma vista produce la misma página.
func newPageData(token string, view domain.View) PageData {
	selected := view.Genre
	if selected == "" {
		selected = domain.DefaultGenre
	}
	genres := make([]genreOption, 0, len(domain.Genres))
	for _, g := range domain.Genres {
		genres = append(genres, genreOption{Value: g.String(), Selected: g == selected})
	}

	data := PageData{
		Token:         token,
		Keywords:      view.Keywords,
		Genres:        genres,
		InFlight:      view.State.IsInFlight(),
		ButtonLabel:   buttonLabelIdle,
		InFlightLabel: buttonLabelActive,
		Paragraphs:    domain.Paragraphs(view.Story),
	}
	if data.InFlight {
		data.ButtonLabel = buttonLabelActive
	}
	if msg, ok := view.State.ErrorMessage(); ok {
		data.HasError = true
		data.Error = msg
	}
	return data
}
