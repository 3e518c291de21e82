package stub

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"marketplace-client/internal/config"
)

// tokenClaims is the wire shape of issued tokens. It matches what the client
// side decodes: user_id, username and the two Django-style permission flags.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	TokenType   string `json:"token_type"`
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type tokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func newTokenManager(cfg config.StubConfig) (*tokenManager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("STUB_JWT_SECRET is required")
	}
	return &tokenManager{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (m *tokenManager) issuePair(now time.Time, u user) (tokenPair, error) {
	access, err := m.issue(now, tokenTypeAccess, u, m.accessTTL)
	if err != nil {
		return tokenPair{}, err
	}
	refresh, err := m.issue(now, tokenTypeRefresh, u, m.refreshTTL)
	if err != nil {
		return tokenPair{}, err
	}
	return tokenPair{Access: access, Refresh: refresh}, nil
}

func (m *tokenManager) issue(now time.Time, tokenType string, u user, ttl time.Duration) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		UserID:      u.ID,
		Username:    u.Username,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		TokenType:   tokenType,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

func (m *tokenManager) verify(tokenString string, now time.Time) (tokenClaims, error) {
	var claims tokenClaims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if _, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}); err != nil {
		return tokenClaims{}, err
	}

	if claims.TokenType != tokenTypeAccess {
		return tokenClaims{}, errors.New("token_type mismatch")
	}
	if claims.UserID == 0 {
		return tokenClaims{}, errors.New("user_id missing")
	}
	return claims, nil
}
