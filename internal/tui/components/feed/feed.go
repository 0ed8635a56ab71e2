// Package feed is a scrollable block of pre-rendered text.
package feed

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type Model struct {
	viewport viewport.Model
	content  string
	empty    string
}

// New returns a feed that shows empty until content is set.
func New(width, height int, empty string) Model {
	return Model{viewport: viewport.New(width, height), empty: empty}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.content == "" {
		return m.empty
	}
	return m.viewport.View()
}

// Content returns the text last passed to SetContent.
func (m Model) Content() string {
	return m.content
}

func (m *Model) SetContent(s string) {
	m.content = s
	m.viewport.SetContent(s)
	m.viewport.GotoTop()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.SetContent(m.content)
}
