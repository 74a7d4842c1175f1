package jwt

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Service resolves sessions from self-contained HS256 tokens for deployments
// without a shared Redis.
type Service struct {
	jwtSecret []byte
}

func New(jwtSecret string) *Service { return &Service{jwtSecret: []byte(jwtSecret)} }

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) { return s.jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	return claims, nil
}

// Resolve treats every invalid or expired token as an unknown session.
func (s *Service) Resolve(_ context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}
	claims, err := s.ValidateToken(token)
	if err != nil {
		return "", false, nil
	}
	return claims.UserID, true, nil
}
