package guard

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Tier is a strictly ordered trust level assigned to a resolved identity.
type Tier int

const (
	// TierBasic is any structurally valid, unexpired Claims. The username
	// may still be absent (signup not completed).
	TierBasic Tier = iota + 1
	// TierAuthenticated additionally requires a username.
	TierAuthenticated
	// TierRoot additionally requires membership in the configured root team.
	TierRoot
)

func (t Tier) String() string {
	switch t {
	case TierBasic:
		return "basic"
	case TierAuthenticated:
		return "authenticated"
	case TierRoot:
		return "root"
	default:
		return "unknown"
	}
}

// AtLeast reports whether t satisfies a route requiring min. Tiers form a
// strict total order, a higher tier implicitly proves the lower ones.
func (t Tier) AtLeast(min Tier) bool {
	return t >= min
}

// TeamMembershipChecker is the single repository operation the guard needs
// beyond the claims themselves.
type TeamMembershipChecker interface {
	UserIsInTeam(ctx context.Context, userID, teamID int64) (bool, error)
}

// Outcome is a successful tier resolution.
type Outcome struct {
	Tier   Tier
	Claims *Claims
}

// TierGuard escalates a request's credentials through the trust tiers. Each
// escalation step either succeeds, fails soft (ErrNotApplicable, the caller
// may fall back to anonymous handling), or faults (repository failure).
// Requiring a higher tier transitively re-derives the lower ones; requiring
// only TierBasic never touches the repository.
type TierGuard struct {
	resolver   *CredentialResolver
	teams      TeamMembershipChecker
	rootTeamID int64
	logger     Logger
}

func NewTierGuard(resolver *CredentialResolver, teams TeamMembershipChecker, cfg Config) *TierGuard {
	return &TierGuard{
		resolver:   resolver,
		teams:      teams,
		rootTeamID: cfg.GetRootTeamID(),
		logger:     defLogger{},
	}
}

func (g *TierGuard) WithLogger(logger Logger) *TierGuard {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Require resolves the request credentials and escalates them up to tier.
// The returned Resolution must be honored by the caller even on failure, it
// may ask for a stale cookie to be cleared.
func (g *TierGuard) Require(ctx context.Context, sources CredentialSources, tier Tier) (*Outcome, Resolution, error) {
	claims, resolution, err := g.resolver.Resolve(sources)
	if err != nil {
		if IsFault(err) {
			return nil, resolution, err
		}
		// Decode, signature, and expiry failures are all soft: an expired or
		// broken session is indistinguishable from none for routing purposes.
		return nil, resolution, ErrNotApplicable
	}

	outcome := &Outcome{Tier: TierBasic, Claims: claims}

	if tier.AtLeast(TierAuthenticated) {
		if err := g.escalateAuthenticated(outcome); err != nil {
			return nil, resolution, err
		}
	}

	if tier.AtLeast(TierRoot) {
		if err := g.escalateRoot(ctx, outcome); err != nil {
			return nil, resolution, err
		}
	}

	return outcome, resolution, nil
}

// RequireBasic accepts any valid unexpired credential.
func (g *TierGuard) RequireBasic(ctx context.Context, sources CredentialSources) (*Outcome, Resolution, error) {
	return g.Require(ctx, sources, TierBasic)
}

// RequireAuthenticated additionally requires a completed signup.
func (g *TierGuard) RequireAuthenticated(ctx context.Context, sources CredentialSources) (*Outcome, Resolution, error) {
	return g.Require(ctx, sources, TierAuthenticated)
}

// RequireRoot additionally requires root team membership.
func (g *TierGuard) RequireRoot(ctx context.Context, sources CredentialSources) (*Outcome, Resolution, error) {
	return g.Require(ctx, sources, TierRoot)
}

// escalateAuthenticated promotes Basic to Authenticated. A missing username
// is soft: a partially signed up user must be redirected to complete signup,
// not rejected outright.
func (g *TierGuard) escalateAuthenticated(outcome *Outcome) error {
	if !outcome.Claims.HasUsername() {
		g.logger.Debug("authenticated tier not met, username absent for uid %d", outcome.Claims.UserID)
		return ErrNotApplicable
	}

	outcome.Tier = TierAuthenticated
	return nil
}

// escalateRoot promotes Authenticated to Root via the team membership
// lookup. Repository errors are faults, never an authentication failure.
func (g *TierGuard) escalateRoot(ctx context.Context, outcome *Outcome) error {
	member, err := g.teams.UserIsInTeam(ctx, outcome.Claims.UserID, g.rootTeamID)
	if err != nil {
		g.logger.Error("root team membership lookup failed for uid %d: %v", outcome.Claims.UserID, err)
		return errors.Wrap(err, errors.CategoryInternal, "failed to check root team membership")
	}

	if !member {
		g.logger.Debug("root tier not met, uid %d not in team %d", outcome.Claims.UserID, g.rootTeamID)
		return ErrNotApplicable
	}

	outcome.Tier = TierRoot
	return nil
}
