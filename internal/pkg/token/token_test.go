package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignAndParse(t *testing.T) {
	raw, err := Sign("secret", "user_1", "patient", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := Parse("secret", raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user_1" || claims.Role != "patient" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	raw, _ := Sign("secret", "user_1", "patient", time.Hour)

	if _, err := Parse("other-secret", raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got: %v", err)
	}
}

func TestParse_Expired(t *testing.T) {
	raw, _ := Sign("secret", "user_1", "patient", -time.Minute)

	if _, err := Parse("secret", raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got: %v", err)
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse("secret", "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got: %v", err)
	}
}

func TestParse_MissingClaims(t *testing.T) {
	// A structurally valid token without sub/role must be rejected.
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tkn.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := Parse("secret", raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for missing claims, got: %v", err)
	}
}

func TestParse_RejectsNonHS256(t *testing.T) {
	tkn := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "user_1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tkn.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := Parse("secret", raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for alg=none, got: %v", err)
	}
}
