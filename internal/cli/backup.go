package cli

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/querylib/internal/backup"
	"github.com/julianstephens/querylib/internal/logger"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Back up the preference store."`
	List    BackupListCmd    `cmd:"" help:"List preference store backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore the preference store from a backup."`
}

func (c *Context) backups() *backup.Manager {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	mgr.Now = c.now
	return mgr
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	backupPath, err := ctx.backups().CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr := ctx.backups()
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), backup.MaxBackups)
	for _, b := range backups {
		ctx.printf("  %s  %s  (%s)\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			humanize.Bytes(uint64(b.Size)))
	}
	ctx.printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr := ctx.backups()
	backupPath := mgr.Resolve(c.BackupFile)

	if !c.Yes {
		ok := false
		err := huh.NewConfirm().
			Title("Restore " + filepath.Base(backupPath) + "?").
			Description("Your current pins and favorites are backed up first.").
			Affirmative("Restore").
			Negative("Cancel").
			Value(&ok).
			Run()
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		logger.Warn("Failed to close preference store", "error", err)
	}

	safety, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	if safety != "" {
		ctx.printf("Previous store saved as: %s\n", filepath.Base(safety))
	}
	ctx.println("✓ Preference store restored.")
	return nil
}
