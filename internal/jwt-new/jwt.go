package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewToken генерирует JWT-токен администратора с заданным временем жизни.
func NewToken(subject string, ttl time.Duration, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("admin jwt secret is not set")
	}
	if subject == "" {
		return "", errors.New("token subject is empty")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": "admin",
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
