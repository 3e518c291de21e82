package api

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// TokenPair is the response of the login endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges credentials for a token pair via POST /token/.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	var pair TokenPair
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/token/",
		body:   map[string]string{"username": username, "password": password},
		out:    &pair,
	})
	return pair, err
}

// User is the current-user profile record.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Me fetches the profile of the authenticated user.
func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	err := c.do(ctx, request{method: http.MethodGet, path: "/account/me/", out: &u})
	return u, err
}

// RegisterRequest creates a customer account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (User, error) {
	var u User
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/account/register/",
		body:   req,
		out:    &u,
	})
	return u, err
}

// Profile is the extended profile record attached to a user account.
type Profile struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar,omitempty"`
	Role      string `json:"role"`
}

// Profiles lists the profile records visible to the current user. Regular
// accounts see only their own.
func (c *Client) Profiles(ctx context.Context) ([]Profile, error) {
	var out []Profile
	err := c.do(ctx, request{method: http.MethodGet, path: "/account/profiles/", out: &out})
	return out, err
}

// UpdateProfile patches the caller's own profile record.
func (c *Client) UpdateProfile(ctx context.Context, id int64, bio, avatarURL string) (Profile, error) {
	var p Profile
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/account/profiles/%d/", id),
		body:   map[string]string{"bio": bio, "avatar": avatarURL},
		out:    &p,
	})
	return p, err
}

// Seller is a seller record as listed by the account service. UserID links it
// to the owning user account.
type Seller struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user"`
	ShopName   string    `json:"shop_name"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// Sellers lists seller records. The response is assumed complete; see the
// navigation resolver for the caveats of deriving "am I a seller" from it.
func (c *Client) Sellers(ctx context.Context) ([]Seller, error) {
	var out []Seller
	err := c.do(ctx, request{method: http.MethodGet, path: "/account/seller/", out: &out})
	return out, err
}

// SellerRegistration applies for a seller account for the current user.
type SellerRegistration struct {
	ShopName string `json:"shop_name"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

func (c *Client) RegisterSeller(ctx context.Context, req SellerRegistration) (Seller, error) {
	var s Seller
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/account/seller/",
		body:   req,
		out:    &s,
	})
	return s, err
}

// Notification mirrors the server-owned notification record. The client only
// ever mutates IsRead, and only optimistically.
type Notification struct {
	ID         int64     `json:"id"`
	Message    string    `json:"message"`
	Type       string    `json:"type"` // info, success, warning
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
	Link       string    `json:"link,omitempty"`
	TargetRole string    `json:"target_role"`
}

// Notifications fetches the full notification list for the current user;
// role filtering happens client-side.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var out []Notification
	err := c.do(ctx, request{method: http.MethodGet, path: "/account/notifications/", out: &out})
	return out, err
}

// MarkNotificationRead acknowledges a notification on the server.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/account/notifications/%d/", id),
		body:   map[string]bool{"is_read": true},
	})
}
