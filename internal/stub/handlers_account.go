package stub

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-client/internal/rbac"
)

// Wire shapes. These mirror the DRF-style serializers of the real API, so the
// client packages can be pointed at either interchangeably.

type userJSON struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

func toUserJSON(u user) userJSON {
	return userJSON{ID: u.ID, Username: u.Username, Email: u.Email, IsStaff: u.IsStaff, IsSuperuser: u.IsSuperuser}
}

type sellerJSON struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user"`
	ShopName   string    `json:"shop_name"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

func toSellerJSON(s seller) sellerJSON {
	return sellerJSON{ID: s.ID, UserID: s.UserID, ShopName: s.ShopName, Phone: s.Phone, Address: s.Address, IsApproved: s.IsApproved, CreatedAt: s.CreatedAt}
}

type notificationJSON struct {
	ID         int64     `json:"id"`
	Message    string    `json:"message"`
	Type       string    `json:"type"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
	Link       string    `json:"link,omitempty"`
	TargetRole string    `json:"target_role"`
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid json"})
		return
	}

	s.store.mu.Lock()
	u, ok := s.store.userByName(req.Username)
	s.store.mu.Unlock()
	if !ok || u.Password != req.Password {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "no active account found with the given credentials"})
		return
	}

	pair, err := s.tokens.issuePair(s.clock(), u)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (s *Server) register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid json"})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "username and password required"})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, exists := s.store.userByName(req.Username); exists {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "username already taken"})
		return
	}
	u := s.store.addUser(user{ID: s.store.id(), Username: req.Username, Email: req.Email, Password: req.Password})
	c.JSON(http.StatusCreated, toUserJSON(u))
}

func (s *Server) me(c *gin.Context) {
	claims := currentClaims(c)

	s.store.mu.Lock()
	u, ok := s.store.userByID(claims.UserID)
	s.store.mu.Unlock()
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "user not found"})
		return
	}
	c.JSON(http.StatusOK, toUserJSON(u))
}

type profileJSON struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar,omitempty"`
	Role      string `json:"role"`
}

// profileRole derives the audience role of one account. Caller holds the
// store lock.
func (s *Server) profileRole(u user) string {
	if u.IsStaff || u.IsSuperuser {
		return rbac.RoleAdmin
	}
	if sl, ok := s.store.sellerByUser(u.ID); ok && sl.IsApproved {
		return rbac.RoleSeller
	}
	return rbac.RoleCustomer
}

func (s *Server) listProfiles(c *gin.Context) {
	claims := currentClaims(c)

	s.store.mu.Lock()
	out := make([]profileJSON, 0)
	for _, p := range s.store.profiles {
		if p.UserID != claims.UserID && !claims.IsStaff && !claims.IsSuperuser {
			continue
		}
		u, ok := s.store.userByID(p.UserID)
		if !ok {
			continue
		}
		out = append(out, profileJSON{ID: p.ID, UserID: p.UserID, Bio: p.Bio, AvatarURL: p.AvatarURL, Role: s.profileRole(u)})
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) updateProfile(c *gin.Context) {
	claims := currentClaims(c)
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Bio       string `json:"bio"`
		AvatarURL string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid json"})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.profiles {
		p := &s.store.profiles[i]
		if p.ID != id {
			continue
		}
		if p.UserID != claims.UserID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "not your profile"})
			return
		}
		p.Bio, p.AvatarURL = req.Bio, req.AvatarURL
		u, _ := s.store.userByID(p.UserID)
		c.JSON(http.StatusOK, profileJSON{ID: p.ID, UserID: p.UserID, Bio: p.Bio, AvatarURL: p.AvatarURL, Role: s.profileRole(u)})
		return
	}
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "profile not found"})
}

func (s *Server) listSellers(c *gin.Context) {
	s.store.mu.Lock()
	out := make([]sellerJSON, 0, len(s.store.sellers))
	for _, sl := range s.store.sellers {
		out = append(out, toSellerJSON(sl))
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) registerSeller(c *gin.Context) {
	claims := currentClaims(c)

	var req struct {
		ShopName string `json:"shop_name"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ShopName == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "shop_name required"})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, exists := s.store.sellerByUser(claims.UserID); exists {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "seller application already exists"})
		return
	}
	sl := seller{
		ID:        s.store.id(),
		UserID:    claims.UserID,
		ShopName:  req.ShopName,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: s.clock(),
	}
	s.store.sellers = append(s.store.sellers, sl)

	// Tell the admins there is a new application to review.
	for _, u := range s.store.users {
		if u.IsStaff || u.IsSuperuser {
			s.store.notify(u.ID, rbac.RoleAdmin, "New seller application: "+req.ShopName, "info", "/admin/sellers", s.clock())
		}
	}
	c.JSON(http.StatusCreated, toSellerJSON(sl))
}

func (s *Server) listNotifications(c *gin.Context) {
	claims := currentClaims(c)

	s.store.mu.Lock()
	out := make([]notificationJSON, 0)
	for _, n := range s.store.notifications {
		if n.UserID != claims.UserID {
			continue
		}
		out = append(out, notificationJSON{
			ID: n.ID, Message: n.Message, Type: n.Type, IsRead: n.IsRead,
			CreatedAt: n.CreatedAt, Link: n.Link, TargetRole: n.TargetRole,
		})
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) markNotificationRead(c *gin.Context) {
	claims := currentClaims(c)
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req struct {
		IsRead bool `json:"is_read"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid json"})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.notifications {
		n := &s.store.notifications[i]
		if n.ID != id || n.UserID != claims.UserID {
			continue
		}
		n.IsRead = req.IsRead
		c.JSON(http.StatusOK, notificationJSON{
			ID: n.ID, Message: n.Message, Type: n.Type, IsRead: n.IsRead,
			CreatedAt: n.CreatedAt, Link: n.Link, TargetRole: n.TargetRole,
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "notification not found"})
}

func (s *Server) listUsers(c *gin.Context) {
	s.store.mu.Lock()
	out := make([]userJSON, 0, len(s.store.users))
	for _, u := range s.store.users {
		out = append(out, toUserJSON(u))
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) setSellerApproval(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		IsApproved bool `json:"is_approved"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid json"})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.sellers {
		sl := &s.store.sellers[i]
		if sl.ID != id {
			continue
		}
		sl.IsApproved = req.IsApproved
		if req.IsApproved {
			s.store.notify(sl.UserID, rbac.RoleSeller, "Your shop has been approved", "success", "/seller/dashboard", s.clock())
		}
		c.JSON(http.StatusOK, toSellerJSON(*sl))
		return
	}
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "seller not found"})
}
