package guard

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// PasswordLoginMessage carries a local login attempt.
type PasswordLoginMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e PasswordLoginMessage) Type() string { return "guard.login.password" }

// PasswordLoginHandler executes password logins and hands the resulting
// session to OnSession, typically to issue the cookie and bearer forms.
type PasswordLoginHandler struct {
	Flows     *LoginFlows
	OnSession func(ctx context.Context, user *User, claims *Claims) error
}

func (h *PasswordLoginHandler) Execute(ctx context.Context, event PasswordLoginMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password login",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *PasswordLoginHandler) execute(ctx context.Context, event PasswordLoginMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, claims, err := h.Flows.LoginWithPassword(ctx, event.Email, event.Password)
	if err != nil {
		return err
	}

	if h.OnSession != nil {
		if err := h.OnSession(ctx, user, claims); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue session")
		}
	}

	return nil
}
