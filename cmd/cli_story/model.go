package main

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"story-gen/internal/domain"
	"story-gen/internal/service"
)

const defaultWidth = 80

type storyRunner interface {
	Prepare(keywords string, genre domain.Genre) (service.StoryRequest, error)
	Run(ctx context.Context, req service.StoryRequest) (string, error)
}

// storyResultMsg llega cuando termina la llamada al proveedor.
type storyResultMsg struct {
	story string
	err   error
}

type model struct {
	ctx      context.Context
	stories  storyRunner
	view     domain.View
	genreIdx int
	width    int
}

func newModel(ctx context.Context, stories storyRunner) model {
	return model{
		ctx:     ctx,
		stories: stories,
		view:    domain.NewView("terminal"),
		width:   defaultWidth,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	case storyResultMsg:
		if msg.err != nil {
			m.view = m.view.Fail(service.UserMessage(msg.err))
		} else {
			m.view = m.view.Succeed(msg.story)
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyUp:
			if m.genreIdx > 0 {
				m.genreIdx--
			}
			m.view = m.view.WithInput(m.view.Keywords, domain.Genres[m.genreIdx])
		case tea.KeyDown:
			if m.genreIdx < len(domain.Genres)-1 {
				m.genreIdx++
			}
			m.view = m.view.WithInput(m.view.Keywords, domain.Genres[m.genreIdx])
		case tea.KeyBackspace:
			r := []rune(m.view.Keywords)
			if len(r) > 0 {
				m.view = m.view.WithInput(string(r[:len(r)-1]), m.view.Genre)
			}
		case tea.KeySpace:
			m.view = m.view.WithInput(m.view.Keywords+" ", m.view.Genre)
		case tea.KeyRunes:
			m.view = m.view.WithInput(m.view.Keywords+string(msg.Runes), m.view.Genre)
		}
	}
	return m, nil
}

// submit ignora Enter mientras hay una solicitud en curso.
func (m model) submit() (tea.Model, tea.Cmd) {
	if m.view.State.IsInFlight() {
		return m, nil
	}
	req, err := m.stories.Prepare(m.view.Keywords, m.view.Genre)
	if err != nil {
		m.view = m.view.Fail(service.UserMessage(err))
		return m, nil
	}
	m.view = m.view.Begin()
	return m, runStory(m.ctx, m.stories, req)
}

func runStory(ctx context.Context, stories storyRunner, req service.StoryRequest) tea.Cmd {
	return func() tea.Msg {
		story, err := stories.Run(ctx, req)
		return storyResultMsg{story: story, err: err}
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Story Generator"))
	b.WriteString("\n")
	b.WriteString(styleHelp.Render("Create unique stories with AI using keywords and genres"))
	b.WriteString("\n\n")

	b.WriteString(styleLabel.Render("Keywords: "))
	b.WriteString(m.view.Keywords)
	b.WriteString("_\n\n")

	b.WriteString(styleLabel.Render("Genre:"))
	b.WriteString("\n")
	for i, g := range domain.Genres {
		if i == m.genreIdx {
			b.WriteString(styleCursor.Render("> " + g.String()))
		} else {
			b.WriteString("  " + g.String())
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.view.State.IsInFlight() {
		b.WriteString(styleDisabled.Render("Generating Story..."))
	} else {
		b.WriteString(styleButton.Render("Generate Story"))
	}
	b.WriteString("\n\n")

	if msg, ok := m.view.State.ErrorMessage(); ok {
		b.WriteString(styleError.Render(msg))
		b.WriteString("\n\n")
	}

	paragraphs := domain.Paragraphs(m.view.Story)
	if len(paragraphs) > 0 {
		b.WriteString(styleTitle.Render("Your Story"))
		b.WriteString("\n\n")
	}
	story := styleStory.Width(m.width)
	for _, p := range paragraphs {
		b.WriteString(story.Render(p))
		b.WriteString("\n\n")
	}

	b.WriteString(styleHelp.Render("type keywords | up/down genre | enter generate | esc quit"))
	b.WriteString("\n")
	return b.String()
}
