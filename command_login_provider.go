package guard

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// ProviderLoginMessage carries the verified profile from a provider
// callback.
type ProviderLoginMessage struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Provider  string `json:"provider"`
	AvatarURL string `json:"avatar_url"`
}

func (e ProviderLoginMessage) Type() string { return "guard.login.provider" }

// ProviderLoginHandler executes provider logins. OnSession receives whether
// the identity was created by this login.
type ProviderLoginHandler struct {
	Flows     *LoginFlows
	OnSession func(ctx context.Context, isNew bool, user *User, claims *Claims) error
}

func (h *ProviderLoginHandler) Execute(ctx context.Context, event ProviderLoginMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during provider login",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ProviderLoginHandler) execute(ctx context.Context, event ProviderLoginMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	isNew, user, claims, err := h.Flows.LoginWithProvider(ctx, ProviderProfile{
		Username:  event.Username,
		Email:     event.Email,
		Provider:  event.Provider,
		AvatarURL: event.AvatarURL,
	})
	if err != nil {
		return err
	}

	if h.OnSession != nil {
		if err := h.OnSession(ctx, isNew, user, claims); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue session")
		}
	}

	return nil
}
