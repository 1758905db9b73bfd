package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestViewTokenService_IssueAndParse(t *testing.T) {
	svc := NewViewTokenService("secret", time.Minute)
	token, err := svc.Issue("view-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	viewID, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if viewID != "view-1" {
		t.Fatalf("expected view-1, got %q", viewID)
	}
}

func TestViewTokenService_RejectsOtherSecret(t *testing.T) {
	token, err := NewViewTokenService("secret-a", time.Minute).Issue("view-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewViewTokenService("secret-b", time.Minute).Parse(token); err != ErrViewTokenInvalid {
		t.Fatalf("expected ErrViewTokenInvalid, got %v", err)
	}
}

func TestViewTokenService_Expired(t *testing.T) {
	svc := NewViewTokenService("secret", time.Minute)
	now := time.Now().UTC()
	claims := ViewClaims{
		ViewID:    "view-1",
		TokenType: viewTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "story-gen",
			Subject:   "view-1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Parse(token); err != ErrViewTokenExpired {
		t.Fatalf("expected ErrViewTokenExpired, got %v", err)
	}
}

func TestViewTokenService_RejectsWrongType(t *testing.T) {
	claims := ViewClaims{
		ViewID:    "view-1",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "story-gen",
			Subject:   "view-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewViewTokenService("secret", time.Minute).Parse(token); err != ErrViewTokenInvalid {
		t.Fatalf("expected ErrViewTokenInvalid, got %v", err)
	}
}

func TestViewTokenService_EmptyInputs(t *testing.T) {
	if _, err := NewViewTokenService("", time.Minute).Issue("v"); err != ErrViewTokenInvalid {
		t.Fatalf("expected error without secret")
	}
	if _, err := NewViewTokenService("secret", time.Minute).Issue(" "); err != ErrViewTokenInvalid {
		t.Fatalf("expected error without view id")
	}
	if _, err := NewViewTokenService("secret", time.Minute).Parse(""); err != ErrViewTokenInvalid {
		t.Fatalf("expected error for empty token")
	}
}

func TestRandomSecret(t *testing.T) {
	a, err := RandomSecret()
	if err != nil {
		t.Fatalf("random secret: %v", err)
	}
	b, _ := RandomSecret()
	if len(a) != 32 || a == b {
		t.Fatalf("expected distinct 32-byte secrets")
	}
}
