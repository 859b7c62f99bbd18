package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/clientdesk/internal/observability/logger"
)

// Server envuelve http.Server con timeouts sanos y shutdown ordenado.
type Server struct {
	srv *http.Server
}

func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// ListenAndServe bloquea hasta que el server cierre.
func (s *Server) ListenAndServe() error {
	logger.L().Info("http_listen", logger.String("addr", s.srv.Addr))
	return s.srv.ListenAndServe()
}

// Shutdown drena conexiones en curso con el deadline del contexto.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.L().Info("http_shutdown")
	return s.srv.Shutdown(ctx)
}
