package server

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const defaultShutdownTimeout = 10 * time.Second

type Options struct {
	Address         string
	Timeout         time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	httpServer      *http.Server
	notify          chan error
	shutdownTimeout time.Duration
}

func New(handler http.Handler, opts Options) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	httpServer := &http.Server{
		Addr:              opts.Address,
		Handler:           handler,
		ReadHeaderTimeout: opts.Timeout,
		ReadTimeout:       opts.Timeout,
		WriteTimeout:      opts.Timeout,
		IdleTimeout:       opts.IdleTimeout,
	}
	return &Server{httpServer: httpServer, notify: make(chan error, 1), shutdownTimeout: opts.ShutdownTimeout}
}

func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.notify <- err
		}
		close(s.notify)
	}()
}

// Notify delivers the error that stopped the server. It is closed after a clean shutdown.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown waits up to the shutdown timeout for in-flight requests, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
