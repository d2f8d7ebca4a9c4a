package guard

import (
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used when hashing passwords.
var BcryptCost = 14

// HashPassword generates a salted hash of the password combined with the
// server wide pepper. The pepper never leaves process memory, so a leaked
// hash column alone is not enough to brute force credentials offline.
func HashPassword(password string, pepper []byte) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword(append([]byte(password), pepper...), BcryptCost)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}
	return string(h), nil
}

// ComparePasswordAndHash validates the given cleartext password, combined
// with the pepper, against the stored hash. A mismatch is reported with the
// same generic error as every other credential failure.
func ComparePasswordAndHash(password string, pepper []byte, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), append([]byte(password), pepper...)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrUnauthenticated
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to compare password hash")
	}
	return nil
}

// RandomPasswordHash produces a throwaway hash for accounts created by a
// provider login. No password will ever compare equal to it.
func RandomPasswordHash(pepper []byte) string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String(), pepper)
	if err != nil {
		return RandomPasswordHash(pepper)
	}

	return h
}
