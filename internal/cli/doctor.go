package cli

import (
	"fmt"

	"github.com/julianstephens/querylib/internal/logger"
	"github.com/julianstephens/querylib/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*Context) error
	// warn marks checks that do not fail the command.
	warn bool
}

var checks = []check{
	{name: "Preference store reachable", run: checkStoreReachable},
	{name: "Schema version", run: checkSchemaVersion},
	{name: "Catalog validation", run: checkCatalog},
	{name: "Timezone", run: checkTimezone},
	{name: "Log file", run: checkLogFile, warn: true},
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	for _, c := range checks {
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", c.name)
		case c.warn:
			ctx.printf("⚠ %s: WARNING\n", c.name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("❌ %s: FAIL\n", c.name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if _, _, err := ctx.Store.Get("doctor"); err != nil {
		return fmt.Errorf("failed to read preferences: %w", err)
	}
	return nil
}

type versioned interface {
	SchemaVersion() (current, latest int, err error)
}

func checkSchemaVersion(ctx *Context) error {
	store, ok := ctx.Store.(versioned)
	if !ok {
		// JSON store has no schema
		return nil
	}
	current, latest, err := store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("store schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkCatalog(ctx *Context) error {
	result := validation.New().ValidateCatalog(ctx.Catalog)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflicts found, run 'querylib validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkTimezone(ctx *Context) error {
	_, err := ctx.Config.Location()
	return err
}

func checkLogFile(ctx *Context) error {
	if logger.Path() == "" {
		return fmt.Errorf("logging to a file is disabled")
	}
	return nil
}
