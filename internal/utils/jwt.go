package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtSecret is set once at startup from config before the server accepts
// requests.
var jwtSecret []byte

// SetJWTSecret configures the signing key for session tokens.
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// SessionClaims are the claims embedded in a session token. The email is the
// user identity every backend call is keyed on.
type SessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// GenerateJWT issues a session token for the given user. Expiry matches the
// backend's own access token lifetime (1 hour).
func GenerateJWT(email, name string) (string, error) {
	claims := SessionClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "searchly-bff",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateJWT parses and verifies a session token and returns its claims.
func ValidateJWT(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
