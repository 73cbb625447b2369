package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrInvalidToken is returned by ParseToken for any token that cannot be
// accepted: bad signature, wrong signing secret, malformed payload or an
// expired `exp` claim. Callers translate it to a 401 response.
var ErrInvalidToken = errors.New("invalid token")

// Token is a signed JWT together with its expiry instant. Access and
// refresh tokens share this shape; they differ only in the secret used
// to sign them and in how long they live.
type Token struct {
	Value string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewToken builds and signs an HS256 JWT naming the given subject
// (a username) and expiring after ttl. The caller chooses the token
// kind by choosing the secret: access and refresh tokens are minted
// with independent secrets so possession of one signing key cannot
// forge the other kind.
func NewToken(secret, subject string, ttl time.Duration) (Token, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, Exp: exp}, nil
}

// ParseToken verifies raw against the given secret and returns the
// subject claim. Expiry is enforced by the jwt library through the
// registered `exp` claim. Every failure mode collapses to
// ErrInvalidToken; the distinction carries no meaning for callers.
func ParseToken(secret, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC; otherwise a
		// crafted "none" or RSA token could slip through.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
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
