// Package jwt firma y valida los tokens de sesión de los operadores de caja.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret  = errors.New("jwt: secret vacío")
	ErrInvalidToken = errors.New("jwt: token inválido")
	ErrTokenExpired = errors.New("jwt: token expirado")
)

// Claims registra usuario y rol; el middleware RBAC decide solo con el token.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"` // "admin" | "cajero"
}

// Generate firma con HS256 un token que vence en ttlMinutes.
func Generate(secret, username, role, issuer string, ttlMinutes int) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	issued := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(time.Duration(ttlMinutes) * time.Minute)),
		},
		Username: username,
		Role:     role,
	})
	return token.SignedString([]byte(secret))
}

// Parse valida firma y vencimiento. Los errores envuelven ErrTokenExpired o ErrInvalidToken.
func Parse(secret, raw string) (*Claims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
