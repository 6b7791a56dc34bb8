package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/store"
	"github.com/aussiebroadwan/workintel/pkg/httpx"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
	sdk "github.com/aussiebroadwan/workintel/pkg/workintelsdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Pings the database; 503 while it is unreachable.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	workintelsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	workintelsdk.HealthResponse	"database unreachable"
//	@Router			/readyz [get]
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &sdk.HealthChecks{Database: "ok"}
		status, code := "ok", http.StatusOK

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := st.Ping(ctx); err != nil {
			slogx.FromContext(ctx).Warn("readiness check failed", "error", err)
			checks.Database = "unreachable"
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, sdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
