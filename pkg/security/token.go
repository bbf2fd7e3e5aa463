package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. Signup tokens gate the verify/complete signup steps,
// session tokens gate everything behind a login. The two kinds are signed
// with different secrets and carry different purpose claims, so neither
// check alone is load-bearing.
const (
	PurposeSignup  = "signup"
	PurposeSession = "session"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type TokenClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	Purpose string `json:"purpose"`
}

// SignSignupToken creates the short-lived token that binds an email
// address to the rest of the signup flow. Nothing is persisted, validity
// is purely signature + expiry.
func SignSignupToken(email, secret string, ttl time.Duration) (string, error) {
	return signToken(&TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		Email:   email,
		Purpose: PurposeSignup,
	}, secret)
}

// SignSessionToken creates the login token bound to a user ID.
func SignSessionToken(userID, secret string, ttl time.Duration) (string, error) {
	return signToken(&TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID:  userID,
		Purpose: PurposeSession,
	}, secret)
}

func signToken(c *TokenClaims, secret string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

// ParseToken verifies the signature, expiry and purpose of a token and
// returns its claims. Any failure collapses to ErrTokenInvalid except an
// elapsed expiry, which is reported as ErrTokenExpired.
func ParseToken(raw, secret, purpose string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, ErrTokenInvalid
	}

	if !token.Valid || claims.Purpose != purpose {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
