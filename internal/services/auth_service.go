package services

import (
	"time"

	"photoline/config"
	photoline_errors "photoline/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and validates operator tokens for the moderation API.
// There is a single operator credential: a bcrypt hash supplied through
// configuration.
type AuthService struct {
	passwordHash []byte
	jwtSecret    []byte
	tokenTTL     time.Duration
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		passwordHash: []byte(cfg.AdminPasswordHash),
		jwtSecret:    []byte(cfg.JWTSecret),
		tokenTTL:     time.Duration(cfg.JWTExpiryMin) * time.Minute,
	}
}

type operatorClaims struct {
	jwt.RegisteredClaims
}

// Login exchanges the operator password for a signed token.
func (s *AuthService) Login(password string) (string, error) {
	if len(s.passwordHash) == 0 {
		return "", photoline_errors.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", photoline_errors.ErrUnauthorized
	}

	now := time.Now()
	claims := operatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken checks the signature and expiry of an operator token.
func (s *AuthService) ValidateToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &operatorClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, photoline_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return photoline_errors.ErrUnauthorized
	}
	return nil
}
