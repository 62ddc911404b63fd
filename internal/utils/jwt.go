package utils

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingAuthHeader = errors.New("missing or malformed Authorization header")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidClaims     = errors.New("invalid token claims")
)

// IssueToken signs a session JWT for the user, valid for 24 hours.
func IssueToken(userID uint, secret string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iat": now.Unix(),
		"exp": now.Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// VerifyToken fetches the Authorization header, validates the JWT,
// and returns the claims if everything is valid.
func VerifyToken(r *http.Request, secret string) (jwt.MapClaims, error) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return nil, ErrMissingAuthHeader
	}
	tokenStr := strings.TrimPrefix(authz, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// GetUserIDFromClaims extracts the "sub" (user ID) from claims.
func GetUserIDFromClaims(claims jwt.MapClaims) (uint, error) {
	sub, ok := claims["sub"]
	if !ok {
		return 0, ErrInvalidClaims
	}

	switch v := sub.(type) {
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, ErrInvalidClaims
		}
		return uint(id), nil
	case float64:
		// JWT numbers get decoded as float64
		return uint(v), nil
	default:
		return 0, ErrInvalidClaims
	}
}
