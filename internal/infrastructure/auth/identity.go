package auth

import "context"

// Identity is the authenticated principal of a request.
// TenantID may be empty for tokens not bound to a tenant.
type Identity struct {
	Subject  string
	TenantID string
	Email    string
	Role     string
}

type identityKey struct{}

// WithIdentity returns a child of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the authenticated identity, if any
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
