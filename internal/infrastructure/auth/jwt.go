package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/loanledger/internal/domain"
)

// Claims represents the JWT claims carried for a ledger caller. The
// ledger itself never authenticates anyone; tokens are how an already
// established identity travels across the submit boundary.
type Claims struct {
	CallerID string `json:"caller_id"`
	Owner    bool   `json:"owner"`
	jwt.RegisteredClaims
}

// JWTManager manages JWT token creation and validation
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Generate generates a new JWT token for a caller identity
func (m *JWTManager) Generate(caller domain.Caller) (string, error) {
	claims := Claims{
		CallerID: caller.ID,
		Owner:    caller.Owner,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify verifies a JWT token and returns the caller it carries
func (m *JWTManager) Verify(tokenString string) (domain.Caller, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Caller{}, domain.ErrExpiredToken
		}
		return domain.Caller{}, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Caller{}, domain.ErrInvalidToken
	}
	if claims.CallerID == "" {
		return domain.Caller{}, domain.ErrInvalidToken
	}

	return domain.Caller{ID: claims.CallerID, Owner: claims.Owner}, nil
}
