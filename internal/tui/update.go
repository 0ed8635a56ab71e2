package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/querylib/internal/catalog"
	"github.com/julianstephens/querylib/internal/constants"
	"github.com/julianstephens/querylib/internal/logger"
	"github.com/julianstephens/querylib/internal/preferences"
	"github.com/julianstephens/querylib/internal/recurrence"
	"github.com/julianstephens/querylib/internal/timeline"
	"github.com/julianstephens/querylib/internal/tui/components/folderlist"
	"github.com/julianstephens/querylib/internal/tui/components/querylist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.setSize(size.Width, size.Height)
	}
	if m.state == constants.StateSchedule || m.state == constants.StateQueryBuilder {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, nil

	case querylist.OpenQueryMsg:
		m.openDetail(msg.ID)
		return m, nil
	case querylist.ToggleFavoriteMsg:
		m.toggleFavorite(msg.ID)
		return m, nil
	case querylist.ScheduleQueryMsg:
		return m, m.openScheduleForm(msg.ID)
	case querylist.BuildQueryMsg:
		return m, m.openQueryBuilder(msg.ID)
	case folderlist.TogglePinMsg:
		m.togglePin(msg.Slug)
		return m, nil
	case folderlist.OpenFolderMsg:
		m.folderID = msg.ID
		m.refreshQueries()
		m.state = constants.StateQueries
		m.status = "Showing " + m.deps.Catalog.FolderName(msg.ID) + " (esc to show all)"
		return m, nil

	case tea.KeyMsg:
		if !m.filtering() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				m.quitting = true
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			case key.Matches(msg, m.keys.Tab):
				m.switchTab(1)
				return m, nil
			case key.Matches(msg, m.keys.ShiftTab):
				m.switchTab(-1)
				return m, nil
			}

			if m.state == constants.StateDetail {
				switch {
				case key.Matches(msg, m.keys.Back):
					m.state = m.previousState
					return m, nil
				case key.Matches(msg, m.keys.Favorite):
					m.toggleFavorite(m.detailID)
					return m, nil
				case key.Matches(msg, m.keys.Schedule):
					return m, m.openScheduleForm(m.detailID)
				case key.Matches(msg, m.keys.Build):
					return m, m.openQueryBuilder(m.detailID)
				case key.Matches(msg, m.keys.Filter):
					m.cycleFilter()
					return m, nil
				}
			}

			if m.state == constants.StateQueries && m.folderID != "" &&
				!m.queryList.Filtered() && key.Matches(msg, m.keys.Back) {
				m.folderID = ""
				m.status = ""
				m.refreshQueries()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateQueries:
		m.queryList, cmd = m.queryList.Update(msg)
	case constants.StateFolders:
		m.folderList, cmd = m.folderList.Update(msg)
	case constants.StateInbox:
		m.inbox, cmd = m.inbox.Update(msg)
	case constants.StateSchedules:
		m.schedules, cmd = m.schedules.Update(msg)
	case constants.StateDetail:
		m.detail, cmd = m.detail.Update(msg)
	}
	return m, cmd
}

func (m *Model) filtering() bool {
	switch m.state {
	case constants.StateQueries:
		return m.queryList.Filtering()
	case constants.StateFolders:
		return m.folderList.Filtering()
	}
	return false
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	// tabs, status line and help
	h := height - 6
	if h < 1 {
		h = 1
	}
	w := width - docStyle.GetHorizontalFrameSize()
	m.queryList.SetSize(w, h)
	m.folderList.SetSize(w, h)
	m.inbox.SetSize(w, h)
	m.schedules.SetSize(w, h)
	m.detail.SetSize(w, h)
}

// activeTab is the tab highlighted in the header.
func (m Model) activeTab() constants.SessionState {
	if m.state < constants.TabCount {
		return m.state
	}
	return m.previousState
}

func (m *Model) switchTab(delta int) {
	next := (int(m.activeTab()) + delta + constants.TabCount) % constants.TabCount
	m.state = constants.SessionState(next)
	m.status = ""
}

func (m *Model) openDetail(id string) {
	if m.state < constants.TabCount {
		m.previousState = m.state
	}
	m.state = constants.StateDetail
	m.detailID = id
	m.detailFilter = timeline.FilterAll
	m.detail.SetContent(m.renderDetail())
}

func (m *Model) cycleFilter() {
	for i, f := range timeline.Filters {
		if f == m.detailFilter {
			m.detailFilter = timeline.Filters[(i+1)%len(timeline.Filters)]
			break
		}
	}
	m.detail.SetContent(m.renderDetail())
}

func (m *Model) toggleFavorite(id string) {
	on, err := m.deps.Favorites.Toggle(id)
	if err != nil {
		logger.Error("Failed to save favorite", "query", id, "error", err)
		m.status = dangerStyle.Render("Could not save favorite: " + err.Error())
		return
	}
	if on {
		m.status = "Added " + m.queryName(id) + " to favorites"
	} else {
		m.status = "Removed " + m.queryName(id) + " from favorites"
	}
	m.refreshQueries()
	if m.state == constants.StateDetail {
		m.detail.SetContent(m.renderDetail())
	}
}

func (m *Model) togglePin(slug string) {
	pinned, err := m.deps.Pins.Toggle(slug)
	switch {
	case preferences.IsPinLimit(err):
		m.status = warningStyle.Render(fmt.Sprintf("At most %d folders can be pinned", constants.MaxPinnedFolders))
		return
	case err != nil:
		logger.Error("Failed to save pinned folders", "folder", slug, "error", err)
		m.status = dangerStyle.Render("Could not save pin: " + err.Error())
		return
	case pinned:
		m.status = "Pinned " + slug
	default:
		m.status = "Unpinned " + slug
	}
	m.refreshFolders()
}

func (m *Model) openScheduleForm(queryID string) tea.Cmd {
	m.enterForm(queryID)
	m.schedule = NewScheduleForm()
	m.form = newScheduleForm(m.schedule)
	m.formView = renderPreview(m.schedule, m.now())
	m.state = constants.StateSchedule
	return m.form.Init()
}

func (m *Model) openQueryBuilder(queryID string) tea.Cmd {
	q, err := m.deps.Catalog.Query(queryID)
	if err != nil {
		m.status = dangerStyle.Render(err.Error())
		return nil
	}
	m.enterForm(queryID)
	m.draft = catalog.NewDraft(q)
	m.builder = NewQueryBuilderForm(m.draft)
	m.form = newQueryBuilderForm(m.draft, m.builder)
	m.formView = renderDraft(m.draft, m.builder)
	m.state = constants.StateQueryBuilder
	return m.form.Init()
}

func (m *Model) enterForm(queryID string) {
	if m.state < constants.TabCount {
		m.previousState = m.state
	}
	m.formReturn = m.state
	m.formFor = queryID
}

func (m *Model) leaveForm() {
	m.state = m.formReturn
	m.form = nil
}

func (m Model) renderForm() string {
	if m.state == constants.StateQueryBuilder {
		return renderDraft(m.draft, m.builder)
	}
	return renderPreview(m.schedule, m.now())
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.leaveForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	m.formView = m.renderForm()

	switch m.form.State {
	case huh.StateCompleted:
		if m.state == constants.StateQueryBuilder {
			m.applyDraft()
		} else if spec, err := m.schedule.Spec(); err == nil {
			m.status = fmt.Sprintf("%s: %s", m.queryName(m.formFor), recurrence.Describe(spec))
			logger.Debug("Recurrence previewed", "query", m.formFor, "spec", recurrence.Describe(spec))
		}
		m.leaveForm()
		return m, nil
	case huh.StateAborted:
		m.leaveForm()
		return m, nil
	}
	return m, cmd
}

// applyDraft folds the completed builder form into the draft. The draft is
// never written back to the catalog.
func (m *Model) applyDraft() {
	if err := m.builder.Apply(m.draft); err != nil {
		logger.Warn("Query draft rejected", "query", m.formFor, "error", err)
		m.status = dangerStyle.Render(err.Error())
		return
	}
	m.status = fmt.Sprintf("%s: %d columns, %d filters (draft, not saved)",
		m.queryName(m.formFor), len(m.draft.Columns), len(m.draft.Filters))
	logger.Debug("Query draft built", "query", m.formFor,
		"columns", len(m.draft.Columns), "filters", len(m.draft.Filters))
}
