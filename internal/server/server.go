// Package server runs the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/bloops-games/sketchy/internal/logging"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	ip       string
	port     string
	listener net.Listener
}

// New binds a listener on port. An empty port or "0" picks a free one.
func New(port string) (*Server, error) {
	addr := fmt.Sprintf(":%s", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create listener on %s: %w", addr, err)
	}

	return &Server{
		ip:       listener.Addr().(*net.TCPAddr).IP.String(),
		port:     fmt.Sprintf("%d", listener.Addr().(*net.TCPAddr).Port),
		listener: listener,
	}, nil
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.ip, s.port)
}

func (s *Server) Port() string {
	return s.port
}

// ServeHTTP serves until ctx is done, then shuts srv down.
func (s *Server) ServeHTTP(ctx context.Context, srv *http.Server) error {
	logger := logging.FromContext(ctx).Named("server")

	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()

		logger.Debugf("server.Serve: context closed")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Debugf("server.Serve: shutting down")
		errCh <- srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("listening on %s", s.Addr())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}

	logger.Debugf("server.Serve: serving stopped")

	if err := <-errCh; err != nil {
		return fmt.Errorf("failed to shutdown: %w", err)
	}

	return nil
}
