package guard

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the immutable configuration every component is constructed
// with. Keys are loaded once by the host process and shared read-only.
type Config interface {
	GetSigningKey() []byte
	GetCookieEncryptionKey() []byte
	GetCookieHMACKey() []byte
	GetCookieName() string
	GetPepper() []byte
	GetRootTeamID() int64
	GetSessionTTL() time.Duration
}

// IdentityRepository is the persistence surface this package consumes. The
// relational schema behind it is the host's concern.
type IdentityRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByAuth(ctx context.Context, email, provider string) (*User, error)
	VerifyPassword(ctx context.Context, email, password string, pepper []byte) (*User, error)
	Create(ctx context.Context, record *User) (*User, error)
	Update(ctx context.Context, id int64, fields UserUpdate) error
	UserIsInTeam(ctx context.Context, userID, teamID int64) (bool, error)
}

// UserUpdate carries the optional fields a profile update may set. Nil
// pointers leave the column untouched.
type UserUpdate struct {
	Username    *string
	DisplayName *string
	AvatarURL   *string
	Links       map[string]any
	Metadata    map[string]any
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GUARD "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] GUARD "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GUARD "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GUARD "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
