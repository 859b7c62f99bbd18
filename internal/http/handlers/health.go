package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/clientdesk/internal/app"
	"github.com/dropDatabas3/clientdesk/internal/http/helpers"
)

type healthHandler struct {
	c *app.Container
}

func NewHealthHandler(c *app.Container) *healthHandler {
	return &healthHandler{c: c}
}

func (h *healthHandler) Register(r chi.Router) {
	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)
}

// GET /healthz: liveness pura, no toca dependencias.
func (h *healthHandler) healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: DB ping + self-check del cifrado (seal/open de un valor
// conocido). Si la clave está mal configurada el pod no recibe tráfico.
func (h *healthHandler) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{"db": "ok", "cipher": "ok"}
	status := http.StatusOK

	if err := h.c.Store.Ping(ctx); err != nil {
		checks["db"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	if box, err := h.c.Box(); err != nil {
		checks["cipher"] = err.Error()
		status = http.StatusServiceUnavailable
	} else if env, err := box.Seal("readyz"); err != nil {
		checks["cipher"] = err.Error()
		status = http.StatusServiceUnavailable
	} else if out, err := box.Open(env); err != nil || out != "readyz" {
		checks["cipher"] = "round trip failed"
		status = http.StatusServiceUnavailable
	}

	helpers.WriteJSON(w, status, checks)
}
