package guard

import "time"

// CheckExpiry rejects claims whose expiry is strictly in the past. A claim
// expiring exactly at now is still accepted. This runs right after decode on
// both transport paths, before any tier check, and is independent of
// signature validity.
func CheckExpiry(claims *Claims, now time.Time) error {
	if claims == nil || claims.RegisteredClaims.ExpiresAt == nil {
		return ErrTokenMalformed
	}

	if now.Unix() > claims.RegisteredClaims.ExpiresAt.Unix() {
		return ErrTokenExpired
	}

	return nil
}
