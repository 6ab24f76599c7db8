// Package auth resolves request credentials to an identity and guards
// routes by role. The identity is passed explicitly into every service
// operation; nothing in the core reads ambient user state.
package auth

import (
	"context"

	"frog-cafe/internal/models"
)

// Identity is the resolved caller: who they are and what role they
// hold. The core treats it as opaque input.
type Identity struct {
	UserID int64
	Name   string
	Role   models.Role
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// IsStaff reports whether the caller works the counter: admins and
// staff both qualify.
func (i Identity) IsStaff() bool {
	return i.Role == models.RoleAdmin || i.Role == models.RoleStaff
}

type contextKey struct{}

// WithIdentity attaches the identity to the context.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, ident)
}

// FromContext extracts the identity resolved by the middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(contextKey{}).(Identity)
	return ident, ok
}
