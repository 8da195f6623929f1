package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of the signed session cookie. Effective validity
// lives in the session store; the token expiry only caps the absolute
// lifetime.
type Claims struct {
	SessionID string `json:"sid"`
	Subject   string `json:"sub"`
	jwt.RegisteredClaims
}

// IssueCookieToken signs an HS256 token binding subject to a session id.
func IssueCookieToken(subject, sessionID, issuer, key string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		Subject:   subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
}

// ParseCookieToken validates a token and returns its claims.
func ParseCookieToken(tokenStr, key, issuer string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(key), nil
	})
	if err != nil {
		return Claims{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if issuer != "" && claims.Issuer != issuer {
		return Claims{}, errors.New("issuer mismatch")
	}
	if claims.SessionID == "" {
		return Claims{}, errors.New("missing session id")
	}
	return *claims, nil
}
