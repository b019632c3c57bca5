package transport

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farmbase/farmbase/pkg/auth"
	"github.com/farmbase/farmbase/pkg/config"
	"github.com/farmbase/farmbase/pkg/observability"
)

// NewRouter assembles the HTTP handler: routes, edge middleware, metrics,
// request-id, and panic recovery. The edge middleware is outermost so the
// farm header contract is enforced before any routing happens.
func NewRouter(cfg *config.Config, h *Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", h.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", h.HandleLogout)
	mux.HandleFunc("GET /api/auth/session", h.HandleSession)
	mux.HandleFunc("POST /api/auth/select-farm", h.HandleSelectFarm)
	mux.HandleFunc("GET /api/farms", h.HandleListFarms)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	var handler http.Handler = mux
	handler = RecoveryMiddleware(handler)
	handler = RequestIDMiddleware(handler)
	handler = observability.MetricsMiddleware(handler)
	handler = auth.EdgeMiddleware(auth.EdgeConfig{Production: cfg.Production()})(handler)
	return handler
}
