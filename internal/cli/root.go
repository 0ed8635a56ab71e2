package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/querylib/internal/catalog"
	"github.com/julianstephens/querylib/internal/config"
	"github.com/julianstephens/querylib/internal/constants"
	"github.com/julianstephens/querylib/internal/logger"
	"github.com/julianstephens/querylib/internal/models"
	"github.com/julianstephens/querylib/internal/preferences"
	"github.com/julianstephens/querylib/internal/storage"
	"github.com/julianstephens/querylib/internal/timeline"
)

// Context is shared by every command.
type Context struct {
	Config     *config.Config
	ConfigPath string
	Catalog    *catalog.Catalog
	Store      storage.Provider
	Pins       *preferences.Pins
	Favorites  *preferences.Favorites
	Reconciler *timeline.Reconciler
	Location   *time.Location
	Now        func() time.Time
	Out        io.Writer
}

// NewContext wires the preference helpers and the reconciler to cfg.
func NewContext(cfg *config.Config, configPath string, cat *catalog.Catalog, store storage.Provider) *Context {
	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("Falling back to local time", "error", err)
	}
	cat.User = cfg.User

	reconciler := timeline.New()
	reconciler.User = cfg.User

	ctx := &Context{
		Config:     cfg,
		ConfigPath: configPath,
		Catalog:    cat,
		Store:      store,
		Pins:       preferences.NewPins(store),
		Favorites:  preferences.NewFavorites(store, cat.FlaggedFavorites()),
		Reconciler: reconciler,
		Location:   loc,
		Now:        time.Now,
		Out:        os.Stdout,
	}
	reconciler.Now = ctx.now
	return ctx
}

func (c *Context) now() time.Time {
	return c.Now().In(c.Location)
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// Timeline reconciles the activity of one query.
func (c *Context) Timeline(queryID string) []models.TimelineRow {
	return c.Reconciler.Reconcile(
		c.Catalog.Runs(queryID),
		c.Catalog.Edits(queryID),
		c.Catalog.ScheduleSummary(queryID),
	)
}

func (c *Context) formatTime(t time.Time) string {
	if t.IsZero() {
		return constants.Placeholder
	}
	return t.In(c.Location).Format(constants.DisplayFormat)
}

func (c *Context) formatOptional(t *time.Time) string {
	if t == nil {
		return constants.Placeholder
	}
	return c.formatTime(*t)
}

// relative renders t as "3 days ago" or "in 2 hours" against the current time.
func (c *Context) relative(t time.Time) string {
	return humanize.RelTime(t, c.now(), "ago", "from now")
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return constants.Placeholder
	}
	return s
}

func joinOr(items []string) string {
	if len(items) == 0 {
		return constants.Placeholder
	}
	return strings.Join(items, ", ")
}
