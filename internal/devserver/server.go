package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/julianstephens/bliss/internal/config"
	"github.com/julianstephens/bliss/internal/logger"
	"github.com/julianstephens/bliss/internal/storage"
)

const shutdownTimeout = 5 * time.Second

// Server runs the stand-in backend until its context is cancelled
type Server struct {
	addr  string
	store *storage.Store
	http  *http.Server
}

// Open opens the database at cfg.DBPath, a SQLite file or a Postgres DSN,
// and builds the HTTP server.
func Open(cfg config.ServerConfig) (*Server, error) {
	dsn := cfg.DBPath
	if !storage.IsPostgresDSN(dsn) {
		var err error
		if dsn, err = config.ExpandPath(dsn); err != nil {
			return nil, err
		}
	}
	store, err := storage.OpenDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var proxy *WeatherProxy
	if cfg.WeatherURL != "" {
		proxy = NewWeatherProxy(cfg.WeatherURL)
	}

	return &Server{
		addr:  cfg.Addr,
		store: store,
		http: &http.Server{
			Addr:         cfg.Addr,
			Handler:      NewRouter(NewHandler(store, proxy)),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}, nil
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.addr
}

// Run listens on Addr and serves until ctx is done, then shuts down
// gracefully and closes the store.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		_ = s.store.Close()
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.store.Close()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Stand-in backend listening", "addr", ln.Addr().String(), "db", s.store.Path())
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down stand-in backend")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
