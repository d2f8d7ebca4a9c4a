package guard

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds      = "guard_invalid_credentials"
	TextCodeSessionNotFound   = "guard_session_not_found"
	TextCodeTokenExpired      = "guard_token_expired"
	TextCodeTokenMalformed    = "guard_token_malformed"
	TextCodeBadSignature      = "guard_bad_signature"
	TextCodeCookieTampered    = "guard_cookie_tampered"
	TextCodeTierNotApplicable = "guard_tier_not_applicable"
	TextCodeTierDenied        = "guard_tier_denied"
	TextCodeUsernameInvalid   = "guard_username_invalid"
	TextCodeUsernameTaken     = "guard_username_taken"
	TextCodeClaimsInvalid     = "guard_claims_invalid"
	TextCodeIdentityNotFound  = "guard_identity_not_found"
	TextCodeIdentityConflict  = "guard_identity_conflict"
	TextCodeEmptyPassword     = "guard_empty_password"
)

// ErrUnauthenticated is the single credential failure surfaced to callers.
// It deliberately carries no detail about why the credential was rejected;
// the specific cause is logged internally.
var ErrUnauthenticated = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToFindSession is returned when neither credential source is present.
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when the claims expiry is in the past.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for structurally invalid bearer tokens.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrBadSignature is returned when a bearer token fails signature
// verification or asserts a different signing algorithm than the pinned one.
var ErrBadSignature = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeBadSignature).
	WithCode(errors.CodeUnauthorized)

// ErrCookieTampered is returned when the session cookie fails its integrity
// check.
var ErrCookieTampered = errors.New("session cookie failed integrity check", errors.CategoryAuth).
	WithTextCode(TextCodeCookieTampered).
	WithCode(errors.CodeUnauthorized)

// ErrNotApplicable reports that a tier requirement was not met but the
// request may still be valid at a lower tier. Callers decide whether to fall
// back to anonymous handling or reject.
var ErrNotApplicable = errors.New("tier requirement not met", errors.CategoryAuth).
	WithTextCode(TextCodeTierNotApplicable).
	WithCode(errors.CodeUnauthorized)

// ErrDenied is the hard rejection for routes that require a tier and offer
// no anonymous fallback.
var ErrDenied = errors.New("unauthorized", errors.CategoryAuthz).
	WithTextCode(TextCodeTierDenied).
	WithCode(errors.CodeUnauthorized)

// ErrUsernameInvalid is returned when a username fails the validation rules.
var ErrUsernameInvalid = errors.New("username is invalid", errors.CategoryValidation).
	WithTextCode(TextCodeUsernameInvalid).
	WithCode(errors.CodeBadRequest)

// ErrUsernameTaken is returned when a username collides with an existing one.
var ErrUsernameTaken = errors.New("username already taken", errors.CategoryValidation).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(errors.CodeConflict)

// ErrClaimsInvalid is returned when claims are constructed outside the
// validated paths, e.g. with an already expired timestamp.
var ErrClaimsInvalid = errors.New("claims are invalid", errors.CategoryValidation).
	WithTextCode(TextCodeClaimsInvalid).
	WithCode(errors.CodeBadRequest)

// ErrIdentityNotFound is the error we return for non found identities.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeNotFound)

// ErrIdentityConflict is returned when a create collides with an existing
// (email, provider) pair and the recovery lookup also fails.
var ErrIdentityConflict = errors.New("identity already exists", errors.CategoryConflict).
	WithTextCode(TextCodeIdentityConflict).
	WithCode(errors.CodeConflict)

// ErrNoEmptyString is returned when hashing an empty password.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// IsNotApplicable reports whether err is the soft tier failure.
func IsNotApplicable(err error) bool {
	return errors.Is(err, ErrNotApplicable)
}

// IsUnauthenticated reports whether err represents a credential failure,
// regardless of the internal cause.
func IsUnauthenticated(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryAuth
}

// IsFault reports whether err is an infrastructure failure rather than a
// credential or validation problem.
func IsFault(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return true
	}
	return richErr.Category == errors.CategoryInternal
}

// IsValidationError reports whether err is a client correctable input error.
func IsValidationError(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryValidation
}
