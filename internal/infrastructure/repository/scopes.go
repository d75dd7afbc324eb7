package repository

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
)

type ctxKey string

const (
	// TenantIDKey is the context key for tenant ID
	TenantIDKey ctxKey = "tenant_id"
	// SkipTenantScopeKey is the context key for skipping tenant scope (super admin)
	SkipTenantScopeKey ctxKey = "skip_tenant_scope"
)

const tenantField = "tenantId"

// TenantScope restricts a collection query to the tenant in the context.
// It reports false when there is no tenant and the caller is not allowed to
// skip the scope; the caller must then return no results.
func TenantScope(ctx context.Context, q firestore.Query) (firestore.Query, bool) {
	if skipScope(ctx) {
		return q, true
	}

	tenantID, ok := GetTenantID(ctx)
	if !ok {
		return q, false
	}
	return q.Where(tenantField, "==", tenantID), true
}

// tenantAllows reports whether a document owned by tenantID is visible.
func tenantAllows(ctx context.Context, tenantID string) bool {
	if skipScope(ctx) {
		return true
	}
	current, ok := GetTenantID(ctx)
	return ok && current == tenantID
}

func skipScope(ctx context.Context) bool {
	skip, ok := ctx.Value(SkipTenantScopeKey).(bool)
	return ok && skip
}

// WithSkipTenantScope adds skip tenant scope flag to context (for super admins)
func WithSkipTenantScope(ctx context.Context, skip bool) context.Context {
	return context.WithValue(ctx, SkipTenantScopeKey, skip)
}

// WithTenant adds tenant ID to context
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, TenantIDKey, strings.TrimSpace(tenantID))
}

// GetTenantID extracts tenant ID from context
func GetTenantID(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(string)
	return tenantID, ok && tenantID != ""
}
