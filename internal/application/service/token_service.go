package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bravo68web/folio/internal/config"
	apperrors "github.com/bravo68web/folio/pkg/errors"
)

// tokenIssuer is the iss claim of every admin token
const tokenIssuer = "folio"

// AdminClaims represents the claims in an admin JWT
type AdminClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// TokenService issues and validates admin bearer tokens
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a new TokenService instance
func NewTokenService(cfg *config.AdminConfig) *TokenService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs an admin token for subject. A zero ttl uses the configured one.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", apperrors.InternalError("admin jwt secret is not configured", apperrors.ErrConfigError)
	}
	if subject == "" {
		return "", apperrors.BadRequest("token subject is required", apperrors.ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	now := s.now()
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
		},
		Scope: "admin",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}
	return signed, nil
}

// Validate parses an admin token and returns its claims
func (s *TokenService) Validate(tokenString string) (*AdminClaims, error) {
	if len(s.secret) == 0 {
		return nil, apperrors.Unauthorized("admin access is not configured", apperrors.ErrUnauthorized)
	}

	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid admin token", apperrors.ErrInvalidToken)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid || claims.Scope != "admin" {
		return nil, apperrors.Unauthorized("invalid admin token claims", apperrors.ErrInvalidToken)
	}
	return claims, nil
}
