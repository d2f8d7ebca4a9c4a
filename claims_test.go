package guard_test

import (
	"testing"
	"time"

	guard "github.com/goliatone/go-guard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClaims(t *testing.T) {
	t.Run("valid claims", func(t *testing.T) {
		claims, err := guard.NewClaims(42, "nova", time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(42), claims.UserID)
		assert.Equal(t, "nova", claims.Username)
		assert.True(t, claims.HasUsername())
	})

	t.Run("empty username is allowed", func(t *testing.T) {
		claims, err := guard.NewClaims(42, "", time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, claims.HasUsername())
	})

	t.Run("past expiry is rejected", func(t *testing.T) {
		_, err := guard.NewClaims(42, "nova", time.Now().Add(-time.Minute))
		require.Error(t, err)
		assert.True(t, guard.IsValidationError(err))
	})

	t.Run("invalid username is rejected", func(t *testing.T) {
		_, err := guard.NewClaims(42, "Not A Handle", time.Now().Add(time.Hour))
		require.Error(t, err)
		assert.True(t, guard.IsValidationError(err))
	})
}

func TestClaimsFromUser(t *testing.T) {
	user := &guard.User{ID: 7, Username: "nova"}

	claims := guard.ClaimsFromUser(user, time.Hour)

	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "nova", claims.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.Expires(), 5*time.Second)
}

func TestClaimsRef(t *testing.T) {
	t.Run("username present", func(t *testing.T) {
		claims, err := guard.NewClaims(42, "nova", time.Now().Add(time.Hour))
		require.NoError(t, err)

		ref, ok := claims.Ref()
		require.True(t, ok)
		assert.Equal(t, guard.UserRef{ID: 42, Username: "nova"}, ref)
	})

	t.Run("username absent", func(t *testing.T) {
		claims, err := guard.NewClaims(42, "", time.Now().Add(time.Hour))
		require.NoError(t, err)

		_, ok := claims.Ref()
		assert.False(t, ok)
	})
}

func TestClaimsSetExpiry(t *testing.T) {
	claims, err := guard.NewClaims(42, "nova", time.Now().Add(time.Hour))
	require.NoError(t, err)

	later := time.Now().Add(48 * time.Hour)
	claims.SetExpiry(later)

	assert.Equal(t, later.Unix(), claims.Expires().Unix())
}
