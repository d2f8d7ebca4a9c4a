package guard

import (
	"context"
)

var userCtxKey = &contextKey{"user"}
var claimsCtxKey = &contextKey{"claims"}
var tierCtxKey = &contextKey{"tier"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context.
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// WithClaimsContext sets the resolved Claims in the given context.
func WithClaimsContext(r context.Context, claims *Claims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the Claims from the standard context.
func GetClaims(ctx context.Context) (*Claims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*Claims)
	return raw, ok
}

// WithTierContext sets the resolved Tier in the given context.
func WithTierContext(r context.Context, tier Tier) context.Context {
	return context.WithValue(r, tierCtxKey, tier)
}

// GetTier extracts the resolved Tier from the standard context.
func GetTier(ctx context.Context) (Tier, bool) {
	raw, ok := ctx.Value(tierCtxKey).(Tier)
	return raw, ok
}

// HasTier reports whether the context carries a tier at least as high as min.
func HasTier(ctx context.Context, min Tier) bool {
	tier, ok := GetTier(ctx)
	if !ok {
		return false
	}
	return tier.AtLeast(min)
}
