package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// NewHTTPServer wraps handler in an http.Server listening on port.
func NewHTTPServer(port string, handler http.Handler, l *zap.Logger) *http.Server {
	addr := net.JoinHostPort("", port)

	l.Info("REST API configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// Listen binds the server's address so the caller learns the real port
// before serving starts.
func Listen(ctx context.Context, srv *http.Server) (net.Listener, error) {
	lc := net.ListenConfig{}
	return lc.Listen(ctx, "tcp", srv.Addr)
}
