package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"newsagent/internal/handler/http/respond"
)

// HealthResponse is the JSON shape of the health check endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus reports the outcome of a single health check.
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthHandler serves liveness checks. The database is an optional
// collaborator, so a nil DB reports a degraded-but-healthy service rather
// than a failure.
type HealthHandler struct {
	DB      *sql.DB
	Version string
}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus, 2)
	status := "healthy"
	code := http.StatusOK

	if h.DB == nil {
		checks["database"] = CheckStatus{
			Status:  "disabled",
			Message: "running without persistence",
		}
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.DB.PingContext(ctx); err != nil {
			checks["database"] = CheckStatus{Status: "unhealthy", Message: "ping failed"}
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		} else {
			checks["database"] = CheckStatus{Status: "healthy"}
		}
	}

	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}
