package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Cookie names used by the web app.
const (
	LoginCookie   = "logged_in_as"
	SessionCookie = "session_id"
)

// GenerateToken creates the signed login token for a username.
func GenerateToken(username, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a login token and extracts the username.
func ParseToken(tokenStr, secret string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenMalformed
	}

	username, ok := claims["sub"].(string)
	if !ok || username == "" {
		return "", jwt.ErrTokenMalformed
	}

	return username, nil
}
