package middleware

import (
	"net/http"

	"screen-star/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantHeader carries the operator's tenant, set by the gateway after it
// has authenticated the caller.
const TenantHeader = "X-Tenant-ID"

// Tenant rejects requests without a valid tenant and stores it in the
// request context.
func Tenant(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(TenantHeader)
			if raw == "" {
				utils.ResponseUnauthorized(w, "Missing tenant header")
				return
			}

			tenantID, err := uuid.Parse(raw)
			if err != nil || tenantID == uuid.Nil {
				logger.Warn("Invalid tenant header",
					zap.String("tenant", raw),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseUnauthorized(w, "Invalid tenant header")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetTenantContext(r.Context(), tenantID)))
		})
	}
}
