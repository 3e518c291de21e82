package stub

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type productJSON struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceMinor  int64     `json:"price_minor"`
	Currency    string    `json:"currency"`
	Stock       int       `json:"stock"`
	CategoryID  int64     `json:"category"`
	SellerID    int64     `json:"seller"`
	ImageURL    string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toProductJSON(p product) productJSON {
	return productJSON{
		ID: p.ID, Name: p.Name, Description: p.Description,
		PriceMinor: p.PriceMinor, Currency: p.Currency, Stock: p.Stock,
		CategoryID: p.CategoryID, SellerID: p.SellerID, ImageURL: p.ImageURL,
		CreatedAt: p.CreatedAt,
	}
}

type categoryJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (s *Server) listProducts(c *gin.Context) {
	search := strings.ToLower(c.Query("search"))
	var categoryID int64
	if raw := c.Query("category"); raw != "" {
		categoryID, _ = strconv.ParseInt(raw, 10, 64)
	}

	s.store.mu.Lock()
	out := make([]productJSON, 0)
	for _, p := range s.store.products {
		if categoryID > 0 && p.CategoryID != categoryID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, toProductJSON(p))
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	s.store.mu.Lock()
	p, found := s.store.productByID(id)
	s.store.mu.Unlock()
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "product not found"})
		return
	}
	c.JSON(http.StatusOK, toProductJSON(p))
}

func (s *Server) listCategories(c *gin.Context) {
	s.store.mu.Lock()
	out := make([]categoryJSON, 0, len(s.store.categories))
	for _, cat := range s.store.categories {
		out = append(out, categoryJSON{ID: cat.ID, Name: cat.Name})
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

// approvedSeller resolves the approved seller record of the calling user,
// writing the error response itself when there is none.
func (s *Server) approvedSeller(c *gin.Context) (seller, bool) {
	claims := currentClaims(c)
	sl, found := s.store.sellerByUser(claims.UserID)
	if !found {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "not a seller"})
		return seller{}, false
	}
	if !sl.IsApproved {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "seller not approved"})
		return seller{}, false
	}
	return sl, true
}

func (s *Server) listSellerProducts(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	sl, ok := s.approvedSeller(c)
	if !ok {
		return
	}
	out := make([]productJSON, 0)
	for _, p := range s.store.products {
		if p.SellerID == sl.ID {
			out = append(out, toProductJSON(p))
		}
	}
	c.JSON(http.StatusOK, out)
}

type productInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceMinor  int64  `json:"price_minor"`
	Currency    string `json:"currency"`
	Stock       int    `json:"stock"`
	CategoryID  int64  `json:"category"`
	ImageURL    string `json:"image"`
}

func (in productInput) validate() string {
	switch {
	case in.Name == "":
		return "name required"
	case in.PriceMinor <= 0:
		return "price_minor must be positive"
	case in.Currency == "":
		return "currency required"
	case in.Stock < 0:
		return "stock must not be negative"
	default:
		return ""
	}
}

func (s *Server) createProduct(c *gin.Context) {
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid json"})
		return
	}
	if msg := in.validate(); msg != "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": msg})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	sl, ok := s.approvedSeller(c)
	if !ok {
		return
	}
	p := product{
		ID: s.store.id(), SellerID: sl.ID, CategoryID: in.CategoryID,
		Name: in.Name, Description: in.Description,
		PriceMinor: in.PriceMinor, Currency: in.Currency, Stock: in.Stock,
		ImageURL: in.ImageURL, CreatedAt: s.clock(),
	}
	s.store.products = append(s.store.products, p)
	c.JSON(http.StatusCreated, toProductJSON(p))
}

func (s *Server) updateProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid json"})
		return
	}
	if msg := in.validate(); msg != "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": msg})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	sl, ok := s.approvedSeller(c)
	if !ok {
		return
	}
	for i := range s.store.products {
		p := &s.store.products[i]
		if p.ID != id {
			continue
		}
		if p.SellerID != sl.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "not your product"})
			return
		}
		p.Name, p.Description = in.Name, in.Description
		p.PriceMinor, p.Currency, p.Stock = in.PriceMinor, in.Currency, in.Stock
		p.CategoryID, p.ImageURL = in.CategoryID, in.ImageURL
		c.JSON(http.StatusOK, toProductJSON(*p))
		return
	}
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "product not found"})
}

// deleteProduct serves both the owning seller and staff moderation.
func (s *Server) deleteProduct(c *gin.Context) {
	claims := currentClaims(c)
	id, ok := paramID(c)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	staff := claims.IsStaff || claims.IsSuperuser
	var sellerID int64
	if !staff {
		sl, ok := s.approvedSeller(c)
		if !ok {
			return
		}
		sellerID = sl.ID
	}
	for i, p := range s.store.products {
		if p.ID != id {
			continue
		}
		if !staff && p.SellerID != sellerID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "not your product"})
			return
		}
		s.store.products = append(s.store.products[:i], s.store.products[i+1:]...)
		c.Status(http.StatusNoContent)
		return
	}
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "product not found"})
}

func (s *Server) createCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "name required"})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	cat := category{ID: s.store.id(), Name: req.Name}
	s.store.categories = append(s.store.categories, cat)
	c.JSON(http.StatusCreated, categoryJSON{ID: cat.ID, Name: cat.Name})
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i, cat := range s.store.categories {
		if cat.ID != id {
			continue
		}
		s.store.categories = append(s.store.categories[:i], s.store.categories[i+1:]...)
		c.Status(http.StatusNoContent)
		return
	}
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "category not found"})
}
