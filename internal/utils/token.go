package utils // package utils provides helper functions for token creation and password hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and validating signed tokens
)

// DefaultAccessTTL is applied when a caller does not specify a positive
// token lifetime.
const DefaultAccessTTL = 15 * time.Minute

// ErrInvalidToken is the single error returned for every verification
// failure: bad signature, wrong algorithm, expired, malformed, or a
// missing subject. Callers must not be able to tell an expired token
// from a forged one.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the serialized JWT string; Exp stores the
// absolute UTC expiration time embedded in the token.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// signingMethod maps a configured algorithm name to its HMAC signing
// method. Only the HS family is supported; anything else falls back to
// HS256 at issue time and is rejected at verify time.
func signingMethod(alg string) *jwt.SigningMethodHMAC {
	switch alg {
	case "HS384":
		return jwt.SigningMethodHS384
	case "HS512":
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}

// NewAccessToken builds and signs a JWT for the given subject. The
// signing key and algorithm come from configuration; ttl falls back to
// DefaultAccessTTL when non-positive. The claims are the standard
// subject (sub), expiration (exp) and issued at (iat).
func NewAccessToken(secret, alg, subject string, ttl time.Duration) (AccessToken, error) {
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(signingMethod(alg), claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyToken validates the signature and expiry of a token string and
// returns its subject claim. Any failure yields ErrInvalidToken.
func VerifyToken(secret, alg, raw string) (string, error) {
	want := signingMethod(alg)
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with a different algorithm than the one
		// configured, including non-HMAC methods.
		if t.Method.Alg() != want.Alg() {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
