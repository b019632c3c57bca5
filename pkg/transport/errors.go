package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/farmbase/farmbase/pkg/auth"
	"github.com/farmbase/farmbase/pkg/observability"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response with the given status and code.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: errorDetail{Code: code, Message: message}})
}

// WriteAuthError maps a typed auth failure onto its status code and writes
// the JSON response. Messages are deliberately generic; they never leak
// which check failed beyond the status class. Unknown errors become 500.
func WriteAuthError(w http.ResponseWriter, err error) {
	status, code, message := classify(err)
	observability.AuthFailuresTotal.WithLabelValues(code).Inc()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	WriteError(w, status, code, message)
}

func classify(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, auth.ErrMissingTenant):
		return http.StatusBadRequest, "missing_farm", "X-Farm-ID header is required"
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "authentication required"
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, "forbidden", "access denied"
	case errors.Is(err, auth.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited", "rate limit exceeded"
	case errors.Is(err, auth.ErrServerMisconfigured):
		return http.StatusInternalServerError, "server_misconfigured", "server misconfigured"
	default:
		return http.StatusInternalServerError, "server_error", "internal server error"
	}
}
