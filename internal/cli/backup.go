package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/julianstephens/bliss/internal/backup"
	"github.com/julianstephens/bliss/internal/config"
	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/storage"
)

// BackupCmd manages snapshots of the stand-in backend database. Restore
// while `bliss serve` is stopped.
type BackupCmd struct {
	List    BackupListCmd    `cmd:"" help:"List database snapshots." default:"1"`
	Create  BackupCreateCmd  `cmd:"" help:"Snapshot the database now."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the database with a snapshot."`
}

func (c *Context) backupManager() (*backup.Manager, error) {
	if storage.IsPostgresDSN(c.Config.Server.DBPath) {
		return nil, errors.New("snapshots only cover SQLite databases; [server] db_path is a Postgres DSN")
	}
	path, err := config.ExpandPath(c.Config.Server.DBPath)
	if err != nil {
		return nil, err
	}
	return backup.NewManager(path, c.Config.Server.Backups), nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	snaps, err := mgr.List()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		ctx.printf("No snapshots in %s\n", mgr.Dir())
		return nil
	}
	ctx.printf("Snapshots in %s:\n", mgr.Dir())
	for _, s := range snaps {
		ctx.printf("  %s  %s  %s\n", s.Name(), s.Timestamp.Format(constants.DateFormat+" 15:04"), formatSize(s.Size))
	}
	return nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	snap, err := mgr.Create()
	if err != nil {
		if errors.Is(err, backup.ErrNoDatabase) {
			return fmt.Errorf("nothing to back up yet, run 'bliss serve' first: %w", err)
		}
		return err
	}
	ctx.printf("Created snapshot: %s\n", snap.Path)
	return nil
}

type BackupRestoreCmd struct {
	Snapshot string `arg:"" help:"Snapshot file name or path."`
	Yes      bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	path := mgr.Resolve(c.Snapshot)

	if !c.Yes {
		confirmed, err := confirm(fmt.Sprintf("Replace the database with %s?", filepath.Base(path)))
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.println("Cancelled")
			return nil
		}
	}

	prev, err := mgr.Restore(path)
	if err != nil {
		return err
	}
	if prev.Path != "" {
		ctx.printf("Saved the previous database as %s\n", prev.Name())
	}
	ctx.printf("Restored database from %s\n", filepath.Base(path))
	return nil
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
