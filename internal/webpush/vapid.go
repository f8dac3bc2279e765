package webpush

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultVAPIDExpiration is the token lifetime when none is given.
	DefaultVAPIDExpiration = 12 * time.Hour
	// MaxVAPIDExpiration is the RFC 8292 ceiling; tokens must expire
	// strictly before it.
	MaxVAPIDExpiration = 24 * time.Hour
)

// Token is a signed VAPID JWT and the public key that verifies it.
type Token struct {
	JWT       string
	PublicKey string
	ExpiresAt time.Time
}

// Authorization formats the token as an Authorization header value.
func (t Token) Authorization() string {
	return "vapid t=" + t.JWT + ", k=" + t.PublicKey
}

// Signer issues VAPID tokens. The zero value uses the wall clock.
type Signer struct {
	Now func() time.Time
}

func (s Signer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GetVapidAuthorizationString validates the VAPID inputs, signs an ES256
// JWT for audience and subject, and returns "vapid t=<jwt>, k=<publicKey>".
// The optional expiration is the token lifetime; without one the token
// lasts DefaultVAPIDExpiration. Only the first value is used.
func GetVapidAuthorizationString(audience, subject, publicKey, privateKey string, expiration ...time.Duration) (string, error) {
	lifetime := DefaultVAPIDExpiration
	if len(expiration) > 0 {
		lifetime = expiration[0]
	}
	t, err := Signer{}.Token(audience, subject, publicKey, privateKey, lifetime)
	if err != nil {
		return "", err
	}
	return t.Authorization(), nil
}

// Token validates the inputs in order (audience, subject, keys, expiration)
// and signs a JWT that expires expiration after the signer's clock. A zero
// expiration yields a token that expires immediately.
func (s Signer) Token(audience, subject, publicKey, privateKey string, expiration time.Duration) (Token, error) {
	if err := validateAudience(audience); err != nil {
		return Token{}, err
	}
	if err := validateSubject(subject); err != nil {
		return Token{}, err
	}
	key, err := ParseVAPIDKeys(publicKey, privateKey)
	if err != nil {
		return Token{}, err
	}

	switch {
	case expiration < 0:
		return Token{}, fmt.Errorf("%w: %s", ErrInvalidExpiration, expiration)
	case expiration >= MaxVAPIDExpiration:
		return Token{}, fmt.Errorf("%w: got %s", ErrExpirationTooLarge, expiration)
	}
	expiresAt := s.now().Add(expiration)

	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"aud": audience,
		"exp": expiresAt.Unix(),
		"sub": subject,
	})
	signed, err := token.SignedString(key)
	if err != nil {
		return Token{}, fmt.Errorf("%w: sign VAPID JWT: %w", ErrCryptoOperationFailed, err)
	}
	pub, err := key.PublicKey.Bytes()
	if err != nil {
		return Token{}, fmt.Errorf("%w: encode VAPID public key: %w", ErrCryptoOperationFailed, err)
	}

	return Token{
		JWT:       signed,
		PublicKey: EncodeBase64URL(pub),
		ExpiresAt: time.Unix(expiresAt.Unix(), 0),
	}, nil
}

// Audience returns the origin (scheme://host) of a push endpoint, which
// is the aud claim push services expect.
func Audience(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}
	return u.Scheme + "://" + u.Host, nil
}

func validateAudience(audience string) error {
	u, err := url.Parse(audience)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAudience, err)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("%w: %q has no hostname", ErrInvalidAudience, audience)
	}
	return nil
}

func validateSubject(subject string) error {
	if strings.HasPrefix(subject, "mailto:") {
		return nil
	}
	u, err := url.Parse(subject)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSubject, err)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("%w: %q is neither mailto: nor a URL", ErrInvalidSubject, subject)
	}
	return nil
}
