package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	SetSecret("unit-test-secret")

	token, err := GenerateToken("u-42", "jane@acme.test", "QualityManager")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != "u-42" || claims.Email != "jane@acme.test" || claims.Role != "QualityManager" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenExpiry(t *testing.T) {
	SetSecret("unit-test-secret")

	token, err := generateTokenWithTTL("u-42", "jane@acme.test", "User", -time.Minute)
	if err != nil {
		t.Fatalf("generateTokenWithTTL() error = %v", err)
	}

	_, err = ValidateToken(token)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("error = %v, want token expired", err)
	}
}

func TestTokenCarries24hTTL(t *testing.T) {
	SetSecret("unit-test-secret")

	before := time.Now()
	token, err := GenerateToken("u-42", "jane@acme.test", "User")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	ttl := claims.ExpiresAt.Sub(before)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Errorf("token ttl = %v, want about %v", ttl, TokenTTL)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	SetSecret("secret-a")
	token, err := GenerateToken("u-42", "jane@acme.test", "User")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	SetSecret("secret-b")
	defer SetSecret("secret-a")

	if _, err := ValidateToken(token); err == nil {
		t.Error("token signed with a different secret must not validate")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	SetSecret("unit-test-secret")

	if _, err := ValidateToken("not-a-jwt"); err == nil {
		t.Error("garbage input must not validate")
	}
}
