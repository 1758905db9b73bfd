package service

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const viewTokenType = "view"

var (
	ErrViewTokenInvalid = errors.New("view token invalid")
	ErrViewTokenExpired = errors.New("view token expired")
)

// ViewTokenService firma y valida los tokens que identifican una vista.
type ViewTokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

type ViewClaims struct {
	ViewID    string `json:"vid"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func NewViewTokenService(secret string, ttl time.Duration) *ViewTokenService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ViewTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "story-gen",
	}
}

// RandomSecret genera un secreto efímero para cuando no se configura uno.
func RandomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func (s *ViewTokenService) Issue(viewID string) (string, error) {
	if len(s.secret) == 0 || strings.TrimSpace(viewID) == "" {
		return "", ErrViewTokenInvalid
	}
	now := time.Now().UTC()
	claims := ViewClaims{
		ViewID:    viewID,
		TokenType: viewTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   viewID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse devuelve el id de vista de un token válido.
func (s *ViewTokenService) Parse(tokenString string) (string, error) {
	if len(s.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return "", ErrViewTokenInvalid
	}
	var claims ViewClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrViewTokenExpired
		}
		return "", ErrViewTokenInvalid
	}
	if claims.TokenType != viewTokenType || strings.TrimSpace(claims.ViewID) == "" || claims.Subject != claims.ViewID {
		return "", ErrViewTokenInvalid
	}
	return claims.ViewID, nil
}
