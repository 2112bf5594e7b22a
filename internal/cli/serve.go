package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/bliss/internal/backup"
	"github.com/julianstephens/bliss/internal/config"
	"github.com/julianstephens/bliss/internal/devserver"
	"github.com/julianstephens/bliss/internal/logger"
	"github.com/julianstephens/bliss/internal/storage"
)

// ServeCmd runs the stand-in backend in the foreground
type ServeCmd struct {
	Addr     string `help:"Listen address. Defaults to [server] addr."`
	DB       string `help:"SQLite database path or Postgres DSN. Defaults to [server] db_path."`
	NoBackup bool   `help:"Skip the startup snapshot of an existing database."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	cfg := ctx.Config.Server
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if c.DB != "" {
		cfg.DBPath = c.DB
	}

	if !c.NoBackup {
		snapshotOnStart(cfg)
	}

	srv, err := devserver.Open(cfg)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.printf("bliss stand-in backend running at http://%s/api\n", srv.Addr())
	return srv.Run(runCtx)
}

// snapshotOnStart keeps a copy of the SQLite database from before this
// run. A first run has nothing to copy; failures only warn.
func snapshotOnStart(cfg config.ServerConfig) {
	if storage.IsPostgresDSN(cfg.DBPath) {
		return
	}
	path, err := config.ExpandPath(cfg.DBPath)
	if err != nil {
		return
	}
	if _, err := backup.NewManager(path, cfg.Backups).Create(); err != nil && !errors.Is(err, backup.ErrNoDatabase) {
		logger.Warn("Startup snapshot failed", "db", path, "err", err)
	}
}
