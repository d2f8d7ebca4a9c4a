package guard_test

import (
	"strings"
	"testing"

	guard "github.com/goliatone/go-guard"
	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{
		"ab",
		"nova",
		"nova-42",
		"a_b_c",
		"x" + strings.Repeat("a", 31), // 32 chars, upper bound
	}
	for _, username := range valid {
		assert.NoError(t, guard.ValidateUsername(username), "username %q", username)
	}

	invalid := []string{
		"",
		"a",                           // too short
		"x" + strings.Repeat("a", 32), // 33 chars
		"1nova",                       // must start with a letter
		"-nova",
		"_nova",
		"Nova", // no uppercase
		"has space",
		"nova!",
		"nova@example.com",
	}
	for _, username := range invalid {
		err := guard.ValidateUsername(username)
		assert.Error(t, err, "username %q", username)
		assert.True(t, guard.IsValidationError(err), "username %q", username)
	}
}

func TestNormalizeUsernameHint(t *testing.T) {
	tests := []struct {
		name string
		hint string
		want string
	}{
		{"valid hint passes through", "nova", "nova"},
		{"surrounding whitespace is trimmed", "  nova  ", "nova"},
		{"empty hint stays empty", "", ""},
		{"whitespace only hint stays empty", "   ", ""},
		{"invalid hint is dropped", "Not A Handle", ""},
		{"too short hint is dropped", "a", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := guard.NormalizeUsernameHint(tc.hint, noopLogger{})
			assert.Equal(t, tc.want, got)
		})
	}
}
