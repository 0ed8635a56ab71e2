package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	StateQueries SessionState = iota
	StateFolders
	StateInbox
	StateSchedules
	StateDetail
	StateSchedule
	StateQueryBuilder
)

// TabCount is the number of top level tabs (queries, folders, inbox, schedules)
const TabCount = 4
