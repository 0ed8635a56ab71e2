package constants

import "time"

const (
	AppName           = "querylib"
	DefaultConfigPath = "~/.config/querylib/config.yaml"
	DefaultStorePath  = "~/.config/querylib/querylib.db"
	Version           = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DisplayFormat is used when listing timestamps to the user
	DisplayFormat = "2006-01-02 15:04"

	// CurrentUser is the actor name the dataset uses for the signed-in user
	CurrentUser = "Me"

	// Placeholder is rendered for missing values
	Placeholder = "—"

	// PreviewCount is the number of upcoming runs shown by the schedule form
	PreviewCount = 3

	// ActivityWindow is the lookahead used to associate nearby timeline events
	ActivityWindow = 10 * time.Minute

	// MaxPinnedFolders caps the pinned folder list
	MaxPinnedFolders = 3

	// Preference keys
	PrefPinnedFolders   = "pinnedFolders"
	PrefFavoriteQueries = "favoriteQueries"
)

// DefaultPinnedFolders are shown when no pinned folder preference is stored.
var DefaultPinnedFolders = []string{"my-folder", "billing-team", "my-quarterly-runs"}
