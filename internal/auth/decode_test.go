package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestDecode_RoundTrip(t *testing.T) {
	tok := signedToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:   42,
		Username: "valid_user",
		IsStaff:  true,
	})

	c := Decode(tok)
	if c == nil {
		t.Fatalf("expected claims, got nil")
	}
	if c.UserID != 42 || c.Username != "valid_user" {
		t.Fatalf("unexpected claims: %+v", c)
	}
	if !c.IsAdminUser() {
		t.Fatalf("staff user should count as admin user")
	}
}

func TestDecode_ExpiredTokenStillDecodes(t *testing.T) {
	tok := signedToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UserID:   7,
		Username: "late",
	})

	c := Decode(tok)
	if c == nil {
		t.Fatalf("expired but well-formed token must decode")
	}
	if c.UserID != 7 {
		t.Fatalf("unexpected claims: %+v", c)
	}
}

func TestDecode_MalformedReturnsNil(t *testing.T) {
	cases := []string{
		"",
		"garbage",
		"one.two",
		"!!!.###.%%%",
		"a.b.c.d",
	}
	for _, tok := range cases {
		if c := Decode(tok); c != nil {
			t.Fatalf("Decode(%q) = %+v, want nil", tok, c)
		}
	}
}
