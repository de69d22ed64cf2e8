// SPDX-License-Identifier: MPL-2.0

package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerState is the lifecycle state of a Server.
type ServerState int32

const (
	// StateCreated indicates Start has not been called.
	StateCreated ServerState = iota
	// StateRunning indicates the server is accepting scrapes.
	StateRunning
	// StateStopped indicates the server was stopped.
	StateStopped
	// StateFailed indicates the server stopped on an error.
	StateFailed
)

// String returns a human-readable state name.
func (s ServerState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Server serves a registry on /metrics. A Server is single-use: once stopped
// or failed, create a new one.
type Server struct {
	state  atomic.Int32
	mu     sync.Mutex
	srv    *http.Server
	ln     net.Listener
	errCh  chan error
	logger *log.Logger
}

// NewServer creates a Server for gatherer listening on addr.
func NewServer(addr string, gatherer prometheus.Gatherer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	s := &Server{
		srv:    &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		errCh:  make(chan error, 1),
		logger: logger,
	}
	s.state.Store(int32(StateCreated))
	return s
}

// State returns the current state.
func (s *Server) State() ServerState {
	return ServerState(s.state.Load())
}

// Err receives the error that stopped a running server.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// Start binds the listener and serves in the background. Bind errors are
// returned directly.
func (s *Server) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before start: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if state := s.State(); state != StateCreated {
		return fmt.Errorf("cannot start metrics server in state %s", state)
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.srv.Addr)
	if err != nil {
		s.state.Store(int32(StateFailed))
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}
	s.ln = ln
	s.state.Store(int32(StateRunning))

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.state.Store(int32(StateFailed))
			s.logger.Error("metrics server stopped", "addr", ln.Addr().String(), "err", err)
			select {
			case s.errCh <- err:
			default:
			}
		}
	}()
	s.logger.Info("serving metrics", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.srv.Addr
}

// Stop shuts the server down. Stopping a server that never started, or was
// already stopped, is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.State() {
	case StateCreated:
		s.state.Store(int32(StateStopped))
		return nil
	case StateStopped, StateFailed:
		return nil
	}
	s.state.Store(int32(StateStopped))
	return s.srv.Shutdown(ctx)
}
