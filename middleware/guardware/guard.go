// Package guardware adapts HTTP requests to the pure tier guard: it gathers
// the credential sources from the request, runs the escalation, applies the
// cookie side effects the resolver asked for, and stashes the outcome for
// downstream handlers.
package guardware

import (
	"context"
	"time"

	guard "github.com/goliatone/go-guard"
	"github.com/goliatone/go-router"
)

// TierRequirer mirrors guard.TierGuard.Require so hosts can substitute their
// own escalation logic in tests.
type TierRequirer interface {
	Require(ctx context.Context, sources guard.CredentialSources, tier guard.Tier) (*guard.Outcome, guard.Resolution, error)
}

type Config struct {
	// Guard performs the actual escalation. Required.
	Guard TierRequirer
	// Tier is the trust level this route requires. Defaults to TierBasic.
	Tier guard.Tier
	// Optional lets the request proceed anonymously when the tier is not
	// met. Hard failures and faults still go through the ErrorHandler.
	Optional bool
	// CookieName is the session cookie to read and refresh.
	CookieName string
	// ContextKey is where the Outcome is stored in router locals.
	ContextKey string

	Filter         func(router.Context) bool
	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler

	// ContextEnricher propagates the outcome to the standard context. The
	// default attaches claims and tier via guard.WithClaimsContext and
	// guard.WithTierContext.
	ContextEnricher func(c context.Context, outcome *guard.Outcome) context.Context
}

func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := getDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			sources := guard.CredentialSources{
				Cookie:        ctx.Cookies(cfg.CookieName),
				Authorization: ctx.GetString(router.HeaderAuthorization, ""),
			}

			outcome, resolution, err := cfg.Guard.Require(ctx.Context(), sources, cfg.Tier)

			applyCookieSideEffects(ctx, cfg, outcome, resolution)

			if err != nil {
				if guard.IsNotApplicable(err) {
					if cfg.Optional {
						return ctx.Next()
					}
					return cfg.ErrorHandler(ctx, guard.ErrDenied)
				}
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, outcome)

			if cfg.ContextEnricher != nil {
				ctx.SetContext(cfg.ContextEnricher(ctx.Context(), outcome))
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

// ClearSessionCookie expires the session cookie. Logout handlers call this
// directly; the middleware uses it when the resolver reports a stale cookie.
func ClearSessionCookie(ctx router.Context, name string) {
	if name == "" {
		name = guard.DefaultCookieName
	}
	ctx.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// applyCookieSideEffects honors the Resolution even when escalation failed:
// a stale cookie is cleared, a fresh one re-issued with its original expiry.
func applyCookieSideEffects(ctx router.Context, cfg Config, outcome *guard.Outcome, resolution guard.Resolution) {
	if resolution.ClearCookie {
		ClearSessionCookie(ctx, cfg.CookieName)
		return
	}

	if resolution.RefreshCookie && outcome != nil {
		ctx.Cookie(&router.Cookie{
			Name:     cfg.CookieName,
			Value:    resolution.CookieValue,
			Expires:  outcome.Claims.Expires(),
			HTTPOnly: true,
			Secure:   true,
			SameSite: "Lax",
		})
	}
}

func getDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Guard == nil {
		panic("GUARD: middleware configuration: Guard is required.")
	}

	if cfg.Tier == 0 {
		cfg.Tier = guard.TierBasic
	}

	if cfg.CookieName == "" {
		cfg.CookieName = guard.DefaultCookieName
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "identity"
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			if guard.IsFault(err) {
				return c.Status(router.StatusInternalServerError).SendString("Internal Server Error")
			}
			// Never explain why a credential was rejected.
			return c.Status(router.StatusUnauthorized).SendString("Unauthorized")
		}
	}

	if cfg.ContextEnricher == nil {
		cfg.ContextEnricher = func(c context.Context, outcome *guard.Outcome) context.Context {
			c = guard.WithClaimsContext(c, outcome.Claims)
			return guard.WithTierContext(c, outcome.Tier)
		}
	}

	return cfg
}

// OutcomeFromRouter extracts the stored Outcome from router locals.
func OutcomeFromRouter(ctx router.Context, key string) (*guard.Outcome, bool) {
	if key == "" {
		key = "identity"
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	outcome, ok := raw.(*guard.Outcome)
	return outcome, ok
}
