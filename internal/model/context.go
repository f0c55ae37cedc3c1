package model

import "context"

// Principal is the verified caller attached to a request once its access
// token has been checked and the subject resolved to a user.
type Principal struct {
	UserID uint64
	Email  string
	Role   RoleName
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the caller placed by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
