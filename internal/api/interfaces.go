package api

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/limbo/streaks/pkg/entity"
)

type JWTServiceI interface {
	GenerateToken(user *entity.User) (string, error)
	// Returns ErrInvalidToken for bad signature, expired or not yet valid tokens
	ParseToken(tokenString string) (*JWTClaims, error)
}

type JWTClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
