package jwt

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	"storefront-checkout/internal/pkg/logger"
	"storefront-checkout/internal/pkg/validation"

	"github.com/golang-jwt/jwt/v5"
)

const (
	UserDataKey   = "user_data"
	tokenDuration = 24 * time.Hour
)

var (
	ErrMissingUserData = errors.New("user data not found in token claims")
	ErrInvalidToken    = errors.New("invalid token")

	secretMu sync.RWMutex
	secret   []byte
)

// Claims carries the authenticated user next to the registered claims.
type Claims struct {
	User *types.UserWithAuth `json:"user_data"`
	jwt.RegisteredClaims
}

// SetSecret overrides JWT_SECRET, mainly for tests.
func SetSecret(s string) {
	secretMu.Lock()
	defer secretMu.Unlock()
	secret = []byte(s)
}

func getJWTSecret() []byte {
	secretMu.RLock()
	s := secret
	secretMu.RUnlock()
	if len(s) > 0 {
		return s
	}

	env := helper.GetEnv("JWT_SECRET")
	if env == "" {
		logger.Warning.Println("JWT_SECRET not found, using default secret")
		env = "$d3f4uIt_s3cr3t_key#"
	}
	return []byte(env)
}

func GenerateToken(data types.UserWithAuth) (string, *time.Time, error) {
	exp := time.Now().Add(tokenDuration)

	claims := Claims{
		User: &data,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   data.ID.String(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(getJWTSecret())
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, &exp, nil
}

// ValidateToken accepts a raw token or an "Authorization: Bearer" header value.
func ValidateToken(raw string) (*types.UserWithAuth, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))

	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		return getJWTSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.User == nil {
		return nil, ErrMissingUserData
	}

	if err := validation.Validate(claims.User); err != nil {
		return nil, err
	}

	return claims.User, nil
}
