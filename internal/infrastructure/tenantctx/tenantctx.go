// Package tenantctx carries the tenant and user of the current request through
// a context.Context, so code deep in a call chain can read them without having
// them passed as parameters.
//
// A value installed with Run, Do or With is visible to everything reached
// through the derived context, including goroutines started with it and
// blocking calls that receive it. The caller's context is never modified, so
// the value disappears when the function returns and concurrent requests
// never observe one another's value.
package tenantctx

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTenantRequired is returned when a RequestContext has no tenant.
var ErrTenantRequired = errors.New("tenantctx: tenant id is required")

// RequestContext identifies the tenant, and optionally the user, a unit of work runs for.
type RequestContext struct {
	TenantID string
	UserID   string
}

// Validate checks that the tenant id is present.
func (rc RequestContext) Validate() error {
	if rc.TenantID == "" {
		return ErrTenantRequired
	}
	return nil
}

type ctxKey struct{}

// With returns a child of ctx carrying rc. It is meant for middleware that
// hands the derived context to the rest of a chain; prefer Run elsewhere.
func With(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// Run executes fn with a context carrying rc and returns fn's result and
// error unchanged. A nested Run shadows rc only for its own extent.
// A panic in fn propagates to the caller.
func Run[T any](ctx context.Context, rc RequestContext, fn func(ctx context.Context) (T, error)) (T, error) {
	return fn(With(ctx, rc))
}

// Do is Run for functions without a result.
func Do(ctx context.Context, rc RequestContext, fn func(ctx context.Context) error) error {
	return fn(With(ctx, rc))
}

// Current returns the RequestContext in ctx, if any.
func Current(ctx context.Context) (RequestContext, bool) {
	if ctx == nil {
		return RequestContext{}, false
	}
	rc, ok := ctx.Value(ctxKey{}).(RequestContext)
	return rc, ok
}

// TenantID returns the tenant id of the current request context.
// It reports false outside any Run or when the tenant is empty.
func TenantID(ctx context.Context) (string, bool) {
	rc, ok := Current(ctx)
	if !ok || rc.TenantID == "" {
		return "", false
	}
	return rc.TenantID, true
}

// UserID returns the user id of the current request context.
// It reports false outside any Run or when no user was set.
func UserID(ctx context.Context) (string, bool) {
	rc, ok := Current(ctx)
	if !ok || rc.UserID == "" {
		return "", false
	}
	return rc.UserID, true
}

// TenantUUID returns the tenant of the current request context as a UUID.
// It reports false when the tenant is missing or malformed.
func TenantUUID(ctx context.Context) (uuid.UUID, bool) {
	raw, ok := TenantID(ctx)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
