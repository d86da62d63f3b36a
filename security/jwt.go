package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims extracted from a verified token.
type TokenClaims struct {
	UserID int64
	Role   string
	Type   string
}

// SignAccessToken issues a short-lived access token carrying the user's
// role so handlers can branch without a lookup.
func SignAccessToken(secret string, userID int64, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    userID,
		"role":       role,
		"token_type": "access",
		"exp":        time.Now().Add(ttl).Unix(),
		"iat":        time.Now().Unix(),
	})
	return token.SignedString([]byte(secret))
}

// SignRefreshToken issues a refresh token.
func SignRefreshToken(secret string, userID int64, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    userID,
		"token_type": "refresh",
		"exp":        time.Now().Add(ttl).Unix(),
		"iat":        time.Now().Unix(),
	})
	return token.SignedString([]byte(secret))
}

// VerifyToken parses a token, enforces HS256 and the expected token_type,
// and returns its claims.
func VerifyToken(secret, tokenStr, expectedType string) (*TokenClaims, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	tokenType, ok := claims["token_type"].(string)
	if !ok || tokenType != expectedType {
		return nil, errors.New("invalid token type")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("token missing user id")
	}

	role, _ := claims["role"].(string)

	return &TokenClaims{
		UserID: int64(userID),
		Role:   role,
		Type:   tokenType,
	}, nil
}
