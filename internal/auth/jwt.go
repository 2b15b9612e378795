package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"restaurant-pos/internal/domain"
)

type Claims struct {
	UserID   int         `json:"user_id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager signs and validates HS256 session tokens.
type JWTManager struct {
	secret  []byte
	timeout time.Duration
}

func NewJWTManager(secret string, timeout time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}
	return &JWTManager{secret: []byte(secret), timeout: timeout}, nil
}

func (m *JWTManager) GenerateToken(u domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses the token and returns the actor it identifies.
func (m *JWTManager) ValidateToken(tokenString string) (domain.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return domain.Actor{}, domain.Wrap(domain.KindAuthentication, "invalid token", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Actor{}, domain.E(domain.KindAuthentication, "invalid token claims")
	}
	return domain.Actor{ID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}
