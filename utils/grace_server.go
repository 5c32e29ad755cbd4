package utils

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
)

const (
	DEFAULT_READ_TIMEOUT     = 60 * time.Second
	DEFAULT_WRITE_TIMEOUT    = DEFAULT_READ_TIMEOUT
	DEFAULT_SHUTDOWN_TIMEOUT = 30 * time.Second
)

// Server wraps http.Server to drain in-flight requests on SIGINT/SIGTERM.
type Server struct {
	*http.Server

	listener        net.Listener
	signalChan      chan os.Signal
	shutdownChan    chan struct{}
	shutdownTimeout time.Duration
}

// NewServer creates a Server with timeouts and handler.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		signalChan:      make(chan os.Signal, 1),
		shutdownChan:    make(chan struct{}),
		shutdownTimeout: DEFAULT_SHUTDOWN_TIMEOUT,
	}
}

// ListenAndServe serves on tcp until a termination signal arrives and shutdown completes.
func (srv *Server) ListenAndServe() error {
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("net.Listen error: %w", err)
	}
	srv.listener = ln
	return srv.serve()
}

func (srv *Server) serve() error {
	signal.Notify(srv.signalChan, syscall.SIGINT, syscall.SIGTERM)
	go srv.handleSignals()

	err := srv.Server.Serve(srv.listener)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	// Wait until Shutdown finished
	<-srv.shutdownChan
	return nil
}

func (srv *Server) handleSignals() {
	sig := <-srv.signalChan
	Sugar.Infof("received %s, graceful shutting down HTTP server", sig)
	signal.Stop(srv.signalChan)
	srv.shutdownHTTPServer()
}

func (srv *Server) shutdownHTTPServer() {
	ctx, cancel := context.WithTimeout(context.Background(), srv.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
	} else {
		Sugar.Info("HTTP server shutdown success")
	}
	close(srv.shutdownChan)
}

// GraceServer starts an HTTP server with graceful shutdown.
func GraceServer(addr string, handler http.Handler) error {
	return NewServer(addr, handler, DEFAULT_READ_TIMEOUT, DEFAULT_WRITE_TIMEOUT).ListenAndServe()
}
