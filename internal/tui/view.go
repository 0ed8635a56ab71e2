package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/querylib/internal/constants"
)

var tabTitles = []string{"Queries", "Folders", "Inbox", "Schedules"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateQueries:
		content = docStyle.Render(m.queryList.View())
	case constants.StateFolders:
		content = docStyle.Render(m.folderList.View())
	case constants.StateInbox:
		content = docStyle.Render(m.inbox.View())
	case constants.StateSchedules:
		content = docStyle.Render(m.schedules.View())
	case constants.StateDetail:
		content = docStyle.Render(m.detail.View())
	case constants.StateSchedule:
		content = m.viewForm("Schedule ")
	case constants.StateQueryBuilder:
		content = m.viewForm("Query builder: ")
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, "  "+m.status)
	}
	if m.validationWarning != "" {
		parts = append(parts, "  "+m.validationWarning)
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.activeTab() == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewForm(prefix string) string {
	title := headerStyle.Render(prefix + m.queryName(m.formFor))
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.form.View(),
		"  ",
		previewBoxStyle.Render(m.formView),
	)
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body))
}
