// Package devicetoken issues and verifies the bearer tokens used by patient
// devices to upload score documents.
package devicetoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the iss claim of every device token.
const Issuer = "balancehealth"

// DefaultTTL is the lifetime of a token when none is given.
const DefaultTTL = 30 * 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid device token")
	ErrEmptySecret  = errors.New("device secret is empty")
	ErrEmptyPatient = errors.New("patient email is required")
)

// Claims carries the patient a device uploads for.
type Claims struct {
	PatientEmail string `json:"patient_email,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs an HS256 token whose subject is the patient email.
// PRE: secret is non-empty; email is non-empty
// POST: token expires at now+ttl (DefaultTTL when ttl <= 0)
func Issue(secret []byte, email string, ttl time.Duration, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrEmptyPatient
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	claims := Claims{
		PatientEmail: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign device token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, issuer and expiry of token and returns the patient email.
// The subject is preferred; the patient_email claim is accepted when the subject is empty.
func Verify(secret []byte, token string) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	email := claims.Subject
	if email == "" {
		email = claims.PatientEmail
	}
	if email == "" {
		return "", fmt.Errorf("%w: no patient", ErrInvalidToken)
	}
	return strings.ToLower(email), nil
}

// FromHeader extracts the token from an "Authorization: Bearer <token>" value.
func FromHeader(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
