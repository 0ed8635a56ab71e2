package querylist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/querylib/internal/models"
)

type OpenQueryMsg struct {
	ID string
}

type ToggleFavoriteMsg struct {
	ID string
}

type ScheduleQueryMsg struct {
	ID string
}

type BuildQueryMsg struct {
	ID string
}

type Item struct {
	Query    models.QueryItem
	Folder   string
	Owner    string
	Favorite bool
}

func (i Item) Title() string {
	if i.Favorite {
		return "★ " + i.Query.Name
	}
	return i.Query.Name
}

func (i Item) Description() string {
	return fmt.Sprintf("%s | %s | %s", i.Query.Type, i.Folder, i.Owner)
}

func (i Item) FilterValue() string { return i.Query.Name }

type KeyMap struct {
	Open     key.Binding
	Favorite key.Binding
	Schedule key.Binding
	Build    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "favorite"),
		),
		Schedule: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "schedule"),
		),
		Build: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "build"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Queries"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the parent model

	l.KeyMap.Quit.SetEnabled(false) // the parent model owns quitting

	keys := DefaultKeyMap()
	l.KeyMap.NextPage.SetKeys("right", "pgdown")
	l.KeyMap.PrevPage.SetKeys("left", "pgup")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Open, keys.Favorite, keys.Schedule, keys.Build}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// SetItems replaces the items and keeps the cursor where it was.
func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
}

// Selected returns the highlighted query.
func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

// Filtering reports whether the list is capturing keys for its filter input.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Filtered reports whether a filter is being typed or applied.
func (m Model) Filtered() bool {
	return m.list.FilterState() != list.Unfiltered
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		i, selected := m.Selected()
		switch {
		case key.Matches(msg, m.keys.Open) && selected:
			return m, func() tea.Msg { return OpenQueryMsg{ID: i.Query.ID} }
		case key.Matches(msg, m.keys.Favorite) && selected:
			return m, func() tea.Msg { return ToggleFavoriteMsg{ID: i.Query.ID} }
		case key.Matches(msg, m.keys.Schedule) && selected:
			return m, func() tea.Msg { return ScheduleQueryMsg{ID: i.Query.ID} }
		case key.Matches(msg, m.keys.Build) && selected:
			return m, func() tea.Msg { return BuildQueryMsg{ID: i.Query.ID} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No queries found."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
