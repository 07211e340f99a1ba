package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin est le seul rôle émis : le catalogue n'a pas de comptes clients.
const RoleAdmin = "admin"

var ErrMissingSecret = errors.New("JWT_SECRET non configuré")

// GenerateAdminJWT signe un jeton d'administration valable ttl.
func GenerateAdminJWT(secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  RoleAdmin,
		"role": RoleAdmin,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAdminJWT vérifie la signature, l'expiration et le rôle du jeton.
func ParseAdminJWT(secret, tokenString string) error {
	if secret == "" {
		return ErrMissingSecret
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return errors.New("token invalide")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != RoleAdmin {
		return errors.New("rôle insuffisant")
	}
	return nil
}
