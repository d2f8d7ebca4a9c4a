package guard_test

import (
	"context"
	"testing"
	"time"

	guard "github.com/goliatone/go-guard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext(t *testing.T) {
	ctx := context.Background()

	_, ok := guard.FromContext(ctx)
	assert.False(t, ok)

	user := &guard.User{ID: 42, Username: "nova"}
	ctx = guard.WithContext(ctx, user)

	got, ok := guard.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)
}

func TestClaimsContext(t *testing.T) {
	ctx := context.Background()

	_, ok := guard.GetClaims(ctx)
	assert.False(t, ok)

	claims := mustClaims(t, 42, "nova", time.Now().Add(time.Hour))
	ctx = guard.WithClaimsContext(ctx, claims)

	got, ok := guard.GetClaims(ctx)
	require.True(t, ok)
	assert.Equal(t, claims, got)
}

func TestTierContext(t *testing.T) {
	ctx := context.Background()

	_, ok := guard.GetTier(ctx)
	assert.False(t, ok)
	assert.False(t, guard.HasTier(ctx, guard.TierBasic))

	ctx = guard.WithTierContext(ctx, guard.TierAuthenticated)

	tier, ok := guard.GetTier(ctx)
	require.True(t, ok)
	assert.Equal(t, guard.TierAuthenticated, tier)

	assert.True(t, guard.HasTier(ctx, guard.TierBasic))
	assert.True(t, guard.HasTier(ctx, guard.TierAuthenticated))
	assert.False(t, guard.HasTier(ctx, guard.TierRoot))
}
