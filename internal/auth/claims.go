package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the access-token payload issued by the marketplace API.
// The client reads it without verifying the signature, so nothing derived
// from it is a security boundary; it drives cosmetic gating only, and the
// server re-checks authorization on every call.
type Claims struct {
	jwt.RegisteredClaims

	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// IsAdminUser reports whether the admin-only UI surface should be offered.
func (c Claims) IsAdminUser() bool { return c.IsStaff || c.IsSuperuser }
