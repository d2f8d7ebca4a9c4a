package guard

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
)

// Username rules: 2 to 32 characters, lowercase letters, digits, dashes and
// underscores, starting with a letter. Uniqueness is enforced at the storage
// layer, these rules only cover shape.
var usernamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateUsername checks a username against the shape rules applied
// whenever a username is set, independent of login path.
func ValidateUsername(username string) error {
	err := validation.Validate(username,
		validation.Required,
		validation.Length(2, 32),
		validation.Match(usernamePattern),
	)
	if err != nil {
		return errors.Wrap(err, ErrUsernameInvalid.Category, ErrUsernameInvalid.Message).
			WithTextCode(ErrUsernameInvalid.TextCode).
			WithMetadata(map[string]any{
				"username": username,
			})
	}
	return nil
}

// NormalizeUsernameHint trims a provider suggested username and drops it when
// it does not validate. Provider logins must never hard fail because the
// suggested display name is malformed.
func NormalizeUsernameHint(hint string, logger Logger) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return ""
	}

	if err := ValidateUsername(hint); err != nil {
		if logger != nil {
			logger.Warn("dropping invalid username hint %q: %v", hint, err)
		}
		return ""
	}

	return hint
}
