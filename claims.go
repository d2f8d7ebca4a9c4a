package guard

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// Claims is the signed identity payload carried by both credential
// transports. A Claims value is only ever constructed through validated
// paths: freshly derived from a persisted User, or decoded from a
// signature-verified wire form.
type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// NewClaims builds Claims for an already known subject, validating the
// expiry and username the same way the persistence layer does.
func NewClaims(userID int64, username string, expiresAt time.Time) (*Claims, error) {
	if expiresAt.Before(time.Now()) {
		return nil, errors.New("expiry must be in the future", ErrClaimsInvalid.Category).
			WithTextCode(ErrClaimsInvalid.TextCode)
	}

	if username != "" {
		if err := ValidateUsername(username); err != nil {
			return nil, err
		}
	}

	return newClaimsUnchecked(userID, username, expiresAt), nil
}

// ClaimsFromUser derives fresh Claims from a persisted user. The expiry is
// always reset to now + ttl.
func ClaimsFromUser(user *User, ttl time.Duration) *Claims {
	return newClaimsUnchecked(user.ID, user.Username, time.Now().Add(ttl))
}

func newClaimsUnchecked(userID int64, username string, expiresAt time.Time) *Claims {
	return &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
}

// HasUsername reports whether the subject completed signup.
func (c *Claims) HasUsername() bool {
	return c.Username != ""
}

// Expires returns the absolute expiry, zero when the claim is missing.
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// SetExpiry replaces the expiry timestamp.
func (c *Claims) SetExpiry(expiresAt time.Time) {
	c.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(expiresAt)
}

// UserRef is the (id, username) projection handed to DTO layers once a
// subject reaches TierAuthenticated.
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Ref returns the UserRef projection, false while the username is absent.
func (c *Claims) Ref() (UserRef, bool) {
	if !c.HasUsername() {
		return UserRef{}, false
	}
	return UserRef{ID: c.UserID, Username: c.Username}, true
}
