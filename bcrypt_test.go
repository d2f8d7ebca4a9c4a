package guard_test

import (
	"testing"

	guard "github.com/goliatone/go-guard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	pepper := []byte("test-pepper")

	hash, err := guard.HashPassword("correct horse", pepper)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, hash, "correct horse")

	t.Run("matching password and pepper", func(t *testing.T) {
		assert.NoError(t, guard.ComparePasswordAndHash("correct horse", pepper, hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := guard.ComparePasswordAndHash("battery staple", pepper, hash)
		assert.ErrorIs(t, err, guard.ErrUnauthenticated)
	})

	t.Run("wrong pepper", func(t *testing.T) {
		err := guard.ComparePasswordAndHash("correct horse", []byte("other-pepper"), hash)
		assert.ErrorIs(t, err, guard.ErrUnauthenticated)
	})

	t.Run("empty password is rejected at hash time", func(t *testing.T) {
		_, err := guard.HashPassword("", pepper)
		assert.ErrorIs(t, err, guard.ErrNoEmptyString)
	})
}

func TestRandomPasswordHash(t *testing.T) {
	pepper := []byte("test-pepper")

	hash := guard.RandomPasswordHash(pepper)
	require.NotEmpty(t, hash)

	// Provider created accounts must never be reachable via password login.
	assert.Error(t, guard.ComparePasswordAndHash("", pepper, hash))
	assert.Error(t, guard.ComparePasswordAndHash("password", pepper, hash))

	assert.NotEqual(t, hash, guard.RandomPasswordHash(pepper))
}
