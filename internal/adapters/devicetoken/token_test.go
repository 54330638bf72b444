package devicetoken

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

// TestIssueVerify tests the round trip and email normalisation.
func TestIssueVerify(t *testing.T) {
	tok, err := Issue(secret, " Pat@Example.com ", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	email, err := Verify(secret, tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if email != "pat@example.com" {
		t.Errorf("email = %q", email)
	}
}

// TestVerify_Rejects tests expired, foreign-key, wrong-algorithm and garbage tokens.
func TestVerify_Rejects(t *testing.T) {
	expired, _ := Issue(secret, "p@example.com", time.Minute, time.Now().Add(-time.Hour))
	foreign, _ := Issue([]byte("another-secret-another-secret-xx"), "p@example.com", time.Hour, time.Now())
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: Issuer, Subject: "p@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"expired":  expired,
		"foreign":  foreign,
		"alg none": none,
		"garbage":  "not.a.token",
		"empty":    "",
	}
	for name, tok := range tests {
		if _, err := Verify(secret, tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

// TestIssue_Errors tests precondition failures.
func TestIssue_Errors(t *testing.T) {
	if _, err := Issue(nil, "p@example.com", 0, time.Now()); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("expected ErrEmptySecret, got %v", err)
	}
	if _, err := Issue(secret, "  ", 0, time.Now()); !errors.Is(err, ErrEmptyPatient) {
		t.Errorf("expected ErrEmptyPatient, got %v", err)
	}
}

// TestFromHeader tests bearer parsing.
func TestFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := FromHeader(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FromHeader(%q) = %q, %v", tt.header, got, ok)
		}
	}
}
