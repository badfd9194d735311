package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	TenantIDKey  contextKey = "tenant_id"
	RequestIDKey contextKey = "request_id"
)

func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantIDVal := ctx.Value(TenantIDKey)
	if tenantIDVal == nil {
		return uuid.Nil, false
	}

	tenantID, ok := tenantIDVal.(uuid.UUID)
	if !ok || tenantID == uuid.Nil {
		return uuid.Nil, false
	}

	return tenantID, true
}

func SetTenantContext(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, TenantIDKey, tenantID)
}

func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func SetRequestIDContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}
