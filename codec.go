package guard

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// bearerMethod is the only algorithm the bearer verifier accepts. Tokens
// asserting anything else fail verification regardless of key validity.
var bearerMethod = jwt.SigningMethodHS512

// ClaimsCodec encodes and decodes Claims into the two wire forms: a signed
// HS512 bearer token and an AES-GCM + HMAC session cookie envelope. It does
// no I/O; expiry is enforced separately by CheckExpiry so signature and
// structural validity stay independent of freshness.
type ClaimsCodec struct {
	signingKey    []byte
	encryptionKey []byte
	hmacKey       []byte
	logger        Logger
}

// NewClaimsCodec creates a codec from the shared immutable configuration.
func NewClaimsCodec(cfg Config) *ClaimsCodec {
	return &ClaimsCodec{
		signingKey:    cfg.GetSigningKey(),
		encryptionKey: cfg.GetCookieEncryptionKey(),
		hmacKey:       cfg.GetCookieHMACKey(),
		logger:        defLogger{},
	}
}

func (c *ClaimsCodec) WithLogger(logger Logger) *ClaimsCodec {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// EncodeBearer signs claims into a compact HS512 token.
func (c *ClaimsCodec) EncodeBearer(claims *Claims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(bearerMethod, claims)

	signed, err := token.SignedString(c.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign bearer token")
	}

	return signed, nil
}

// DecodeBearer verifies a bearer token and returns its claims. An optional
// "Bearer " scheme prefix and surrounding whitespace are stripped before
// verification. Expiry is NOT checked here.
func (c *ClaimsCodec) DecodeBearer(raw string) (*Claims, error) {
	tokenString := strings.TrimSpace(raw)
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	tokenString = strings.TrimSpace(tokenString)

	if tokenString == "" {
		return nil, ErrTokenMalformed
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != bearerMethod.Alg() {
			c.logger.Error("bearer decode rejected unexpected signing method: %v", t.Header["alg"])
			return nil, ErrBadSignature
		}
		return c.signingKey, nil
	},
		jwt.WithValidMethods([]string{bearerMethod.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, ErrBadSignature) {
			return nil, ErrBadSignature
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	if err := checkClaimsShape(claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// EncodeCookie seals claims into the integrity-protected cookie value:
// base64url(hmac-sha256(ciphertext) || aes-gcm(json(claims))).
func (c *ClaimsCodec) EncodeCookie(claims *Claims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	plaintext, err := json.Marshal(claims)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to marshal claims")
	}

	block, err := aes.NewCipher(c.encryptionKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to create cipher")
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to create GCM")
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to generate nonce")
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)

	mac := hmac.New(sha256.New, c.hmacKey)
	mac.Write(ciphertext)
	signature := mac.Sum(nil)

	return base64.URLEncoding.EncodeToString(append(signature, ciphertext...)), nil
}

// DecodeCookie verifies and decrypts a cookie value. Any integrity failure
// yields ErrCookieTampered, never a partial decode. Expiry is NOT checked
// here.
func (c *ClaimsCodec) DecodeCookie(value string) (*Claims, error) {
	data, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return nil, ErrCookieTampered
	}

	if len(data) < sha256.Size {
		return nil, ErrCookieTampered
	}

	signature := data[:sha256.Size]
	ciphertext := data[sha256.Size:]

	mac := hmac.New(sha256.New, c.hmacKey)
	mac.Write(ciphertext)
	if !hmac.Equal(signature, mac.Sum(nil)) {
		return nil, ErrCookieTampered
	}

	block, err := aes.NewCipher(c.encryptionKey)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create cipher")
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create GCM")
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, ErrCookieTampered
	}

	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrCookieTampered
	}

	claims := &Claims{}
	if err := json.Unmarshal(plaintext, claims); err != nil {
		return nil, ErrCookieTampered
	}

	if err := checkClaimsShape(claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// checkClaimsShape enforces structural validity common to both transports:
// a subject id and an absolute expiry must be present.
func checkClaimsShape(claims *Claims) error {
	if claims.UserID == 0 {
		return ErrTokenMalformed
	}
	if claims.RegisteredClaims.ExpiresAt == nil {
		return ErrTokenMalformed
	}
	return nil
}
