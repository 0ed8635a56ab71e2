package folderlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/querylib/internal/catalog"
)

type TogglePinMsg struct {
	Slug string
}

type OpenFolderMsg struct {
	ID string
}

type Item struct {
	Stat   catalog.FolderStat
	Pinned bool
}

func (i Item) Title() string {
	if i.Pinned {
		return "📌 " + i.Stat.Folder.Name
	}
	return i.Stat.Folder.Name
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%d queries", i.Stat.Count)
	if len(i.Stat.Tags) > 0 {
		desc += " | " + strings.Join(i.Stat.Tags, ", ")
	}
	return desc
}

func (i Item) FilterValue() string { return i.Stat.Folder.Name }

type KeyMap struct {
	Pin  key.Binding
	Open key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "show queries"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Folders"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	l.KeyMap.Quit.SetEnabled(false) // the parent model owns quitting

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Pin, keys.Open}
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

func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
}

func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		i, selected := m.Selected()
		switch {
		case key.Matches(msg, m.keys.Pin) && selected:
			return m, func() tea.Msg { return TogglePinMsg{Slug: i.Stat.Slug} }
		case key.Matches(msg, m.keys.Open) && selected:
			return m, func() tea.Msg { return OpenFolderMsg{ID: i.Stat.Folder.ID} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No folders found."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
