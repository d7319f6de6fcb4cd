package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const Issuer = "crickscore"

var (
	ErrMissing = errors.New("token is missing")
	ErrExpired = errors.New("token has expired")
	ErrInvalid = errors.New("token is invalid")
)

// Claims carries the caller identity and the role the route guards check.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role,omitempty"` // scorer, admin or viewer
	jwt.RegisteredClaims
}

// Issue signs an HS256 token for userID that expires after ttl.
func Issue(secret string, userID uint, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret key is empty")
	}
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    Issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse verifies signature, issuer and expiry and returns the claims.
// Errors wrap ErrMissing, ErrExpired or ErrInvalid.
func Parse(tokenString, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissing
	}
	if secret == "" {
		return nil, fmt.Errorf("%w: no secret configured", ErrInvalid)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	case claims.UserID == 0:
		return nil, fmt.Errorf("%w: user_id claim is missing", ErrInvalid)
	}
	return claims, nil
}
