package guard_test

import (
	"testing"
	"time"

	guard "github.com/goliatone/go-guard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) (*guard.CredentialResolver, *guard.ClaimsCodec) {
	t.Helper()
	codec := newTestCodec(t)
	resolver := guard.NewCredentialResolver(codec).WithLogger(noopLogger{})
	return resolver, codec
}

func TestResolveCookie(t *testing.T) {
	resolver, codec := newTestResolver(t)
	exp := time.Now().Add(time.Hour)
	claims := mustClaims(t, 42, "nova", exp)

	cookie, err := codec.EncodeCookie(claims)
	require.NoError(t, err)

	resolved, resolution, err := resolver.Resolve(guard.CredentialSources{Cookie: cookie})
	require.NoError(t, err)

	assert.Equal(t, guard.SourceCookie, resolution.Source)
	assert.Equal(t, int64(42), resolved.UserID)

	t.Run("cookie is refreshed without sliding expiry", func(t *testing.T) {
		require.True(t, resolution.RefreshCookie)
		require.NotEmpty(t, resolution.CookieValue)
		assert.False(t, resolution.ClearCookie)

		refreshed, err := codec.DecodeCookie(resolution.CookieValue)
		require.NoError(t, err)
		assert.Equal(t, int64(42), refreshed.UserID)
		assert.Equal(t, exp.Unix(), refreshed.Expires().Unix())
	})
}

func TestResolveBearer(t *testing.T) {
	resolver, codec := newTestResolver(t)
	claims := mustClaims(t, 42, "nova", time.Now().Add(time.Hour))

	token, err := codec.EncodeBearer(claims)
	require.NoError(t, err)

	resolved, resolution, err := resolver.Resolve(guard.CredentialSources{
		Authorization: "Bearer " + token,
	})
	require.NoError(t, err)

	assert.Equal(t, guard.SourceBearer, resolution.Source)
	assert.Equal(t, int64(42), resolved.UserID)

	// Bearer sessions are stateless, no cookie side effects.
	assert.False(t, resolution.RefreshCookie)
	assert.False(t, resolution.ClearCookie)
}

func TestResolveCookieTakesPrecedence(t *testing.T) {
	resolver, codec := newTestResolver(t)

	cookieClaims := mustClaims(t, 1, "cookie-user", time.Now().Add(time.Hour))
	cookie, err := codec.EncodeCookie(cookieClaims)
	require.NoError(t, err)

	bearerClaims := mustClaims(t, 2, "bearer-user", time.Now().Add(time.Hour))
	token, err := codec.EncodeBearer(bearerClaims)
	require.NoError(t, err)

	resolved, resolution, err := resolver.Resolve(guard.CredentialSources{
		Cookie:        cookie,
		Authorization: "Bearer " + token,
	})
	require.NoError(t, err)

	assert.Equal(t, guard.SourceCookie, resolution.Source)
	assert.Equal(t, int64(1), resolved.UserID)
}

func TestResolveBrokenCookieNeverFallsBack(t *testing.T) {
	resolver, codec := newTestResolver(t)

	bearerClaims := mustClaims(t, 2, "bearer-user", time.Now().Add(time.Hour))
	token, err := codec.EncodeBearer(bearerClaims)
	require.NoError(t, err)

	_, resolution, err := resolver.Resolve(guard.CredentialSources{
		Cookie:        "definitely-not-a-cookie",
		Authorization: "Bearer " + token,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, guard.ErrCookieTampered)
	assert.Equal(t, guard.SourceCookie, resolution.Source)
}

func TestResolveExpiredCookieIsCleared(t *testing.T) {
	resolver, codec := newTestResolver(t)

	claims := mustClaims(t, 42, "nova", time.Now().Add(time.Hour))
	cookie, err := codec.EncodeCookie(claims)
	require.NoError(t, err)

	resolver.WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) })

	_, resolution, err := resolver.Resolve(guard.CredentialSources{Cookie: cookie})

	require.ErrorIs(t, err, guard.ErrTokenExpired)
	assert.True(t, resolution.ClearCookie)
	assert.False(t, resolution.RefreshCookie)
}

func TestResolveExpiredBearer(t *testing.T) {
	resolver, codec := newTestResolver(t)

	claims := mustClaims(t, 42, "nova", time.Now().Add(time.Hour))
	token, err := codec.EncodeBearer(claims)
	require.NoError(t, err)

	resolver.WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) })

	_, resolution, err := resolver.Resolve(guard.CredentialSources{Authorization: token})

	require.ErrorIs(t, err, guard.ErrTokenExpired)
	assert.False(t, resolution.ClearCookie)
}

func TestResolveNoCredentials(t *testing.T) {
	resolver, _ := newTestResolver(t)

	_, resolution, err := resolver.Resolve(guard.CredentialSources{})

	require.ErrorIs(t, err, guard.ErrUnableToFindSession)
	assert.Equal(t, guard.SourceNone, resolution.Source)
}

func TestCredentialSourceString(t *testing.T) {
	assert.Equal(t, "none", guard.SourceNone.String())
	assert.Equal(t, "cookie", guard.SourceCookie.String())
	assert.Equal(t, "bearer", guard.SourceBearer.String())
}
