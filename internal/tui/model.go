package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/querylib/internal/catalog"
	"github.com/julianstephens/querylib/internal/constants"
	"github.com/julianstephens/querylib/internal/preferences"
	"github.com/julianstephens/querylib/internal/timeline"
	"github.com/julianstephens/querylib/internal/tui/components/feed"
	"github.com/julianstephens/querylib/internal/tui/components/folderlist"
	"github.com/julianstephens/querylib/internal/tui/components/querylist"
	"github.com/julianstephens/querylib/internal/validation"
)

// Deps are the collaborators the UI reads from and writes preferences to.
type Deps struct {
	Catalog    *catalog.Catalog
	Pins       *preferences.Pins
	Favorites  *preferences.Favorites
	Reconciler *timeline.Reconciler
	Location   *time.Location
	Now        func() time.Time
}

type Model struct {
	deps Deps

	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model

	queryList  querylist.Model
	folderList folderlist.Model
	inbox      feed.Model
	schedules  feed.Model
	detail     feed.Model

	// folderID narrows the query tab to one folder when set.
	folderID string

	detailID     string
	detailFilter timeline.FilterKind

	form       *huh.Form
	schedule   *ScheduleForm
	draft      *catalog.Draft
	builder    *QueryBuilderForm
	formFor    string
	formView   string
	formReturn constants.SessionState

	status            string
	validationWarning string

	quitting bool
	width    int
	height   int
}

func NewModel(deps Deps) Model {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	m := Model{
		deps:         deps,
		state:        constants.StateQueries,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		queryList:    querylist.New(nil, 0, 0),
		folderList:   folderlist.New(nil, 0, 0),
		inbox:        feed.New(0, 0, "\n  No delivered runs."),
		schedules:    feed.New(0, 0, "\n  No schedules."),
		detail:       feed.New(0, 0, "\n  No query selected."),
		detailFilter: timeline.FilterAll,
	}
	m.refreshQueries()
	m.refreshFolders()
	m.inbox.SetContent(m.renderInbox())
	m.schedules.SetContent(m.renderSchedules())

	result := validation.New().ValidateCatalog(deps.Catalog)
	if result.HasConflicts() {
		m.validationWarning = warningStyle.Render(
			"⚠ catalog has validation warnings, run 'querylib validate'")
	}
	return m
}

func (m Model) now() time.Time {
	return m.deps.Now().In(m.deps.Location)
}

func (m *Model) refreshQueries() {
	source := m.deps.Catalog.Queries
	if m.folderID != "" {
		source = m.deps.Catalog.QueriesInFolder(m.folderID)
	}
	items := make([]querylist.Item, 0, len(source))
	for _, q := range source {
		items = append(items, querylist.Item{
			Query:    q,
			Folder:   m.deps.Catalog.FolderName(q.FolderID),
			Owner:    catalog.OwnerLabel(q),
			Favorite: m.deps.Favorites.IsFavorite(q.ID),
		})
	}
	m.queryList.SetItems(items)
}

func (m *Model) refreshFolders() {
	pins := m.deps.Pins.List()
	stats := m.deps.Catalog.FolderStats(catalog.CategoryAll, "")

	items := make([]folderlist.Item, 0, len(stats))
	for _, slug := range pins {
		for _, st := range stats {
			if st.Slug == slug {
				items = append(items, folderlist.Item{Stat: st, Pinned: true})
			}
		}
	}
	for _, st := range stats {
		if !contains(pins, st.Slug) {
			items = append(items, folderlist.Item{Stat: st})
		}
	}
	m.folderList.SetItems(items)
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateQueries:
		keys = append(keys, m.keys.Enter, m.keys.Favorite, m.keys.Schedule, m.keys.Build)
	case constants.StateFolders:
		keys = append(keys, m.keys.Enter, m.keys.Pin)
	case constants.StateDetail:
		keys = append(keys, m.keys.Filter, m.keys.Favorite, m.keys.Schedule, m.keys.Build, m.keys.Back)
	case constants.StateSchedule, constants.StateQueryBuilder:
		keys = []key.Binding{m.keys.Back}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.Back}
	actions := []key.Binding{m.keys.Favorite, m.keys.Pin, m.keys.Schedule, m.keys.Build, m.keys.Filter}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
