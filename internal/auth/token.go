package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"imageshare.com/internal/model"
)

// TokenClaims is the decoded identity carried by a session token
type TokenClaims struct {
	UserID    uint
	Username  string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// IssueToken signs a session token for an authenticated user. The token ID
// (jti) is what the logout blacklist keys on.
func IssueToken(user *model.User, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
		"jti":      uuid.NewString(),
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// ParseToken validates a signed token and extracts its claims
func ParseToken(tokenString string, secret []byte) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	id, _ := claims["id"].(float64) // JSON numbers decode as float64
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	jti, _ := claims["jti"].(string)
	exp, _ := claims["exp"].(float64)

	return &TokenClaims{
		UserID:    uint(id),
		Username:  username,
		Role:      role,
		TokenID:   jti,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
