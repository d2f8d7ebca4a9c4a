package guard

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
)

// ProviderProfile is the identity material a third party provider verified
// on our behalf. The redirect and code exchange happen elsewhere, this
// package only consumes the result.
type ProviderProfile struct {
	// Username is a suggested handle. It is dropped, not rejected, when it
	// fails the username rules.
	Username  string
	Email     string
	Provider  string
	AvatarURL string
}

// Validate checks the fields the flow cannot proceed without.
func (p ProviderProfile) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Provider, validation.Required),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid provider profile")
	}
	return nil
}

// LoginFlows produces the initial Claims for a session, either from a local
// password or from a provider verified identity.
type LoginFlows struct {
	users  IdentityRepository
	pepper []byte
	ttl    time.Duration
	logger Logger
}

func NewLoginFlows(users IdentityRepository, cfg Config) *LoginFlows {
	return &LoginFlows{
		users:  users,
		pepper: cfg.GetPepper(),
		ttl:    cfg.GetSessionTTL(),
		logger: defLogger{},
	}
}

func (l *LoginFlows) WithLogger(logger Logger) *LoginFlows {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// LoginWithPassword verifies a password against the stored peppered hash and
// derives fresh Claims. Unknown email and wrong password yield the same
// generic unauthenticated error so responses carry no enumeration signal.
func (l *LoginFlows) LoginWithPassword(ctx context.Context, email, password string) (*User, *Claims, error) {
	user, err := l.users.VerifyPassword(ctx, email, password, l.pepper)
	if err != nil {
		if IsFault(err) {
			return nil, nil, err
		}
		l.logger.Info("password login rejected for %s: %v", email, err)
		return nil, nil, ErrUnauthenticated
	}

	return user, ClaimsFromUser(user, l.ttl), nil
}

// LoginWithProvider resolves or creates the identity for a provider verified
// email. Repeat logins are pure lookups, no fields are overwritten. Two
// concurrent first logins for the same (email, provider) pair are resolved
// by the storage uniqueness constraint: the loser of the race retries the
// lookup exactly once before surfacing a fault.
func (l *LoginFlows) LoginWithProvider(ctx context.Context, profile ProviderProfile) (bool, *User, *Claims, error) {
	if err := profile.Validate(); err != nil {
		return false, nil, nil, err
	}

	username := NormalizeUsernameHint(profile.Username, l.logger)

	user, err := l.users.GetByAuth(ctx, profile.Email, profile.Provider)
	if err == nil {
		return false, user, ClaimsFromUser(user, l.ttl), nil
	}
	if !errors.IsNotFound(err) {
		return false, nil, nil, err
	}

	record := &User{
		Username:     username,
		Email:        profile.Email,
		AuthProvider: profile.Provider,
		AvatarURL:    profile.AvatarURL,
		PasswordHash: RandomPasswordHash(l.pepper),
		Links:        map[string]any{},
		Metadata:     map[string]any{},
	}

	created, err := l.users.Create(ctx, record)
	if err == nil {
		return true, created, ClaimsFromUser(created, l.ttl), nil
	}

	if !errors.Is(err, ErrIdentityConflict) {
		if IsFault(err) {
			return false, nil, nil, err
		}
		return false, nil, nil, errors.Wrap(err, errors.CategoryInternal, "failed to create identity")
	}

	// Someone else just created it. One lookup retry, then give up.
	l.logger.Info("provider login lost create race for %s/%s, retrying lookup",
		profile.Email, profile.Provider)

	user, err = l.users.GetByAuth(ctx, profile.Email, profile.Provider)
	if err != nil {
		return false, nil, nil, errors.Wrap(err, errors.CategoryInternal, "failed to recover from identity create race")
	}

	return false, user, ClaimsFromUser(user, l.ttl), nil
}
