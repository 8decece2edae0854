package http

import (
	"context"
	stdhttp "net/http"
	"time"
)

// HealthHandler reports liveness only; dependencies are checked by
// ReadinessHandler.
func HealthHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(stdhttp.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Dependency is a named readiness probe, e.g. a database ping.
type Dependency struct {
	Name  string
	Check func(ctx context.Context) error
}

type readinessResponse struct {
	Status string   `json:"status"`
	Failed []string `json:"failed,omitempty"`
}

const readinessTimeout = 2 * time.Second

// ReadinessHandler answers 200 when every dependency responds and 503
// naming the failed ones otherwise. Check errors are logged, not returned.
func ReadinessHandler(deps ...Dependency) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var failed []string
		for _, dep := range deps {
			if err := dep.Check(ctx); err != nil {
				loggerFrom(r.Context()).WarnContext(r.Context(), "readiness check failed",
					"dependency", dep.Name,
					"err", err,
				)
				failed = append(failed, dep.Name)
			}
		}
		if len(failed) > 0 {
			writeJSON(w, stdhttp.StatusServiceUnavailable, readinessResponse{Status: "unavailable", Failed: failed})
			return
		}
		writeJSON(w, stdhttp.StatusOK, readinessResponse{Status: "ready"})
	}
}
