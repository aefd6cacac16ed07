package auth

import "context"

type contextKey string

const claimsKey contextKey = "auth_claims"

// WithClaims returns a context carrying the verified claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// CurrentUser returns the claims attached by the auth middleware, or nil
// for unauthenticated requests.
func CurrentUser(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}
