package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.sr.ht/~jakintosh/todo/internal/config"
	"git.sr.ht/~jakintosh/todo/internal/domain"
	"git.sr.ht/~jakintosh/todo/internal/logger"
	"git.sr.ht/~jakintosh/todo/internal/store"
	"git.sr.ht/~jakintosh/todo/internal/web"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		boot := logger.New(logger.Options{Level: zerolog.InfoLevel})
		boot.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(2)
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	log := logger.New(logger.Options{Level: level, Pretty: cfg.LogPretty})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log, nil)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}
}

// run serves until ctx is done or the listener fails. The store is always
// closed before it returns. ready, when non-nil, receives the bound address.
func run(ctx context.Context, cfg config.Config, log zerolog.Logger, ready chan<- net.Addr) error {
	// Initialize Store
	var s domain.Store
	if cfg.Memory {
		log.Warn().Msg("Running with in-memory store; tasks will not persist")
		s = store.NewInMemoryStore()
	} else {
		sq := store.NewSQLiteStore(cfg.DBPath, log)
		log.Info().Str("path", sq.Path()).Msg("Using task database")
		s = sq
	}
	defer s.Close()

	if err := s.Open(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	// Initialize Web Server
	srv, err := web.NewServer(s, log)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}
	if ready != nil {
		ready <- ln.Addr()
	}

	httpSrv := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("Starting server")
		errCh <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}
