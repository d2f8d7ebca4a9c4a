package guard

import "time"

// DefaultSessionTTL is how long a freshly issued session stays valid.
var DefaultSessionTTL = 7 * 24 * time.Hour

// DefaultCookieName is the session cookie name.
var DefaultCookieName = "auth"

// SimpleConfig is a plain value implementation of Config.
type SimpleConfig struct {
	SigningKey          []byte
	CookieEncryptionKey []byte
	CookieHMACKey       []byte
	CookieName          string
	Pepper              []byte
	RootTeamID          int64
	SessionTTL          time.Duration
}

var _ Config = SimpleConfig{}

func (c SimpleConfig) GetSigningKey() []byte {
	return c.SigningKey
}

func (c SimpleConfig) GetCookieEncryptionKey() []byte {
	return c.CookieEncryptionKey
}

func (c SimpleConfig) GetCookieHMACKey() []byte {
	return c.CookieHMACKey
}

func (c SimpleConfig) GetCookieName() string {
	if c.CookieName == "" {
		return DefaultCookieName
	}
	return c.CookieName
}

func (c SimpleConfig) GetPepper() []byte {
	return c.Pepper
}

func (c SimpleConfig) GetRootTeamID() int64 {
	return c.RootTeamID
}

func (c SimpleConfig) GetSessionTTL() time.Duration {
	if c.SessionTTL <= 0 {
		return DefaultSessionTTL
	}
	return c.SessionTTL
}
