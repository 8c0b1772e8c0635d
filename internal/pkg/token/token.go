// Package token signs and verifies the session tokens shared by the HTTP
// auth middleware and the websocket handshake.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the verified content of a session token.
type Claims struct {
	UserID string
	Role   string
}

// Sign issues an HS256 token carrying the subject id, role, and expiry.
func Sign(secret, userID, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// Parse verifies signature and expiry and extracts the claims. Expired or
// malformed tokens return ErrInvalidToken.
func Parse(secret, raw string) (*Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil, ErrInvalidToken
	}
	return &Claims{UserID: sub, Role: role}, nil
}
