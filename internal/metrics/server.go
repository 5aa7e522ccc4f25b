package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"codeberg.org/snonux/signreel/internal/logging"
)

// Handler returns the Prometheus metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Server exposes /metrics over HTTP
type Server struct {
	srv    *http.Server
	ln     net.Listener
	done   chan struct{}
	logger *zap.SugaredLogger
}

// Start listens on addr and serves /metrics in the background. Listen errors
// are returned right away.
func Start(addr string, logger *zap.SugaredLogger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	s := &Server{
		srv: &http.Server{
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		ln:     ln,
		done:   make(chan struct{}),
		logger: logging.OrNop(logger),
	}

	go func() {
		defer close(s.done)
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorw("Metrics server failed", "addr", s.Addr(), "error", err)
		}
	}()

	s.logger.Infow("Serving metrics", "url", "http://"+s.Addr()+"/metrics")
	return s, nil
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Shutdown stops the server and waits for the serve loop to exit
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	<-s.done
	return err
}
