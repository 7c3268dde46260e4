// Package server runs keygraph as a long-lived process: an HTTP server
// with signal-driven shutdown, and the scheduler that drives the layout
// simulation clock.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dd0wney/keygraph/pkg/logging"
)

// ConfigReloadFunc re-reads configuration when SIGHUP arrives
type ConfigReloadFunc func() error

// GracefulOptions configures a GracefulServer. Zero timeouts fall back
// to defaults suited for small JSON payloads.
type GracefulOptions struct {
	Addr    string
	Handler http.Handler

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	Logger logging.Logger
}

// GracefulServer wraps an HTTP server with signal handling. SIGINT and
// SIGTERM drain connections and make Start return; SIGHUP triggers a
// configuration reload if one is registered. Cleanup of collaborators
// (scheduler, publisher) is the caller's job once Start returns.
type GracefulServer struct {
	server          *http.Server
	log             logging.Logger
	shutdownTimeout time.Duration

	shutdownCh   chan struct{}
	shutdownOnce sync.Once

	reloadMu sync.RWMutex
	reloadFn ConfigReloadFunc
}

// NewGracefulServer creates a graceful HTTP server
func NewGracefulServer(opts GracefulOptions) *GracefulServer {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 30 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 30 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logging.DefaultLogger()
	}

	return &GracefulServer{
		server: &http.Server{
			Addr:           opts.Addr,
			Handler:        opts.Handler,
			ReadTimeout:    opts.ReadTimeout,
			WriteTimeout:   opts.WriteTimeout,
			IdleTimeout:    120 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		log:             log.With(logging.Component("server")),
		shutdownTimeout: opts.ShutdownTimeout,
		shutdownCh:      make(chan struct{}),
	}
}

// Start serves HTTP and blocks until the listener fails or a shutdown
// completes. A clean shutdown returns nil.
func (gs *GracefulServer) Start() error {
	go gs.handleSignals()

	gs.log.Info("HTTP server listening", logging.String("addr", gs.server.Addr))
	if err := gs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains connections within the configured timeout. Safe to
// call more than once; later calls return nil without doing anything.
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		gs.log.Info("Shutting down", logging.Duration("timeout", timeout))
		if shutdownErr := gs.server.Shutdown(ctx); shutdownErr != nil {
			err = shutdownErr
			gs.log.Error("Shutdown failed", logging.Error(shutdownErr))
		} else {
			gs.log.Info("Shutdown complete")
		}
	})
	return err
}

func (gs *GracefulServer) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-gs.shutdownCh:
			return

		case sig := <-sigCh:
			switch sig {
			case syscall.SIGINT, syscall.SIGTERM:
				gs.log.Info("Shutdown signal received", logging.String("signal", sig.String()))
				if err := gs.Shutdown(gs.shutdownTimeout); err != nil {
					gs.log.Error("Signal-driven shutdown failed", logging.Error(err))
				}
				return

			case syscall.SIGHUP:
				gs.log.Info("Reload signal received")
				if err := gs.ReloadConfig(); err != nil {
					gs.log.Error("Configuration reload failed", logging.Error(err))
				}
			}
		}
	}
}

// IsShuttingDown reports whether shutdown has been initiated
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel closes when shutdown is initiated
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}

// SetConfigReloadFunc registers the function SIGHUP invokes
func (gs *GracefulServer) SetConfigReloadFunc(fn ConfigReloadFunc) {
	gs.reloadMu.Lock()
	defer gs.reloadMu.Unlock()
	gs.reloadFn = fn
}

// ReloadConfig invokes the registered reload function
func (gs *GracefulServer) ReloadConfig() error {
	gs.reloadMu.RLock()
	reloadFn := gs.reloadFn
	gs.reloadMu.RUnlock()

	if reloadFn == nil {
		gs.log.Warn("Reload requested but no reload function registered")
		return nil
	}

	if err := reloadFn(); err != nil {
		return err
	}
	gs.log.Info("Configuration reloaded")
	return nil
}
