package guard

import (
	"time"
)

// CredentialSource identifies which transport produced the claims.
type CredentialSource int

const (
	SourceNone CredentialSource = iota
	SourceCookie
	SourceBearer
)

func (s CredentialSource) String() string {
	switch s {
	case SourceCookie:
		return "cookie"
	case SourceBearer:
		return "bearer"
	default:
		return "none"
	}
}

// CredentialSources carries the raw credential material available on a
// request. Empty strings mean the source is absent.
type CredentialSources struct {
	// Cookie is the raw value of the session cookie.
	Cookie string
	// Authorization is the raw Authorization header value.
	Authorization string
}

// Resolution describes the cookie side effects the caller should apply.
// Returning them as data keeps the resolver free of request I/O.
type Resolution struct {
	Source CredentialSource
	// RefreshCookie asks the caller to re-set the session cookie with
	// CookieValue. The claims expiry inside is NOT slid forward, only the
	// transport encoding is refreshed.
	RefreshCookie bool
	CookieValue   string
	// ClearCookie asks the caller to drop a stale session cookie.
	ClearCookie bool
}

// CredentialResolver extracts candidate claims from a request's credential
// sources. The cookie always takes precedence over the header so a stale
// bearer token cannot override a freshly refreshed session.
type CredentialResolver struct {
	codec  *ClaimsCodec
	logger Logger
	now    func() time.Time
}

func NewCredentialResolver(codec *ClaimsCodec) *CredentialResolver {
	return &CredentialResolver{
		codec:  codec,
		logger: defLogger{},
		now:    time.Now,
	}
}

func (r *CredentialResolver) WithLogger(logger Logger) *CredentialResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithClock overrides the time source, used by expiry tests.
func (r *CredentialResolver) WithClock(now func() time.Time) *CredentialResolver {
	if now != nil {
		r.now = now
	}
	return r
}

// Resolve extracts claims from the available sources. When a cookie is
// present it is decoded and, on success, re-encoded so the caller can refresh
// its transport encoding. Bearer sessions are stateless per request and
// trigger no cookie side effects.
func (r *CredentialResolver) Resolve(sources CredentialSources) (*Claims, Resolution, error) {
	if sources.Cookie != "" {
		return r.resolveCookie(sources.Cookie)
	}

	if sources.Authorization != "" {
		return r.resolveBearer(sources.Authorization)
	}

	return nil, Resolution{}, ErrUnableToFindSession
}

// resolveCookie is terminal: a present cookie is never silently ignored in
// favor of the Authorization header, even when it fails to decode.
func (r *CredentialResolver) resolveCookie(value string) (*Claims, Resolution, error) {
	resolution := Resolution{Source: SourceCookie}

	claims, err := r.codec.DecodeCookie(value)
	if err != nil {
		r.logger.Info("session cookie rejected: %v", err)
		return nil, resolution, err
	}

	if err := CheckExpiry(claims, r.now()); err != nil {
		r.logger.Debug("session cookie expired for uid %d", claims.UserID)
		resolution.ClearCookie = true
		return nil, resolution, err
	}

	refreshed, err := r.codec.EncodeCookie(claims)
	if err != nil {
		return nil, resolution, err
	}

	resolution.RefreshCookie = true
	resolution.CookieValue = refreshed

	return claims, resolution, nil
}

func (r *CredentialResolver) resolveBearer(header string) (*Claims, Resolution, error) {
	resolution := Resolution{Source: SourceBearer}

	claims, err := r.codec.DecodeBearer(header)
	if err != nil {
		r.logger.Info("bearer token rejected: %v", err)
		return nil, resolution, err
	}

	if err := CheckExpiry(claims, r.now()); err != nil {
		r.logger.Debug("bearer token expired for uid %d", claims.UserID)
		return nil, resolution, err
	}

	return claims, resolution, nil
}
