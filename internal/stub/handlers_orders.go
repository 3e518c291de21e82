package stub

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-client/internal/rbac"
)

type cartItemJSON struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	PriceMinor  int64  `json:"price_minor"`
	Currency    string `json:"currency"`
}

type cartJSON struct {
	ID         int64          `json:"id"`
	Items      []cartItemJSON `json:"items"`
	TotalMinor int64          `json:"total_minor"`
	Currency   string         `json:"currency"`
}

// buildCart assembles the cart view for one user. Caller holds the store lock.
func (s *Server) buildCart(userID int64) cartJSON {
	out := cartJSON{ID: userID, Items: []cartItemJSON{}}
	for _, it := range s.store.cartItems {
		if it.UserID != userID {
			continue
		}
		p, found := s.store.productByID(it.ProductID)
		if !found {
			continue
		}
		out.Items = append(out.Items, cartItemJSON{
			ID: it.ID, ProductID: p.ID, ProductName: p.Name,
			Quantity: it.Quantity, PriceMinor: p.PriceMinor, Currency: p.Currency,
		})
		out.TotalMinor += p.PriceMinor * int64(it.Quantity)
		out.Currency = p.Currency
	}
	return out
}

func (s *Server) getCart(c *gin.Context) {
	claims := currentClaims(c)
	s.store.mu.Lock()
	cart := s.buildCart(claims.UserID)
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, cart)
}

func (s *Server) addCartItem(c *gin.Context) {
	claims := currentClaims(c)
	var req struct {
		ProductID int64 `json:"product"`
		Quantity  int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "product required"})
		return
	}
	if req.Quantity <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "quantity must be positive"})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	p, found := s.store.productByID(req.ProductID)
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "product not found"})
		return
	}
	if p.Stock < req.Quantity {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "insufficient stock"})
		return
	}

	// Adding a product already in the cart bumps its quantity.
	for i := range s.store.cartItems {
		it := &s.store.cartItems[i]
		if it.UserID == claims.UserID && it.ProductID == req.ProductID {
			it.Quantity += req.Quantity
			c.JSON(http.StatusOK, cartItemJSON{
				ID: it.ID, ProductID: p.ID, ProductName: p.Name,
				Quantity: it.Quantity, PriceMinor: p.PriceMinor, Currency: p.Currency,
			})
			return
		}
	}

	it := cartItem{ID: s.store.id(), UserID: claims.UserID, ProductID: req.ProductID, Quantity: req.Quantity}
	s.store.cartItems = append(s.store.cartItems, it)
	c.JSON(http.StatusCreated, cartItemJSON{
		ID: it.ID, ProductID: p.ID, ProductName: p.Name,
		Quantity: it.Quantity, PriceMinor: p.PriceMinor, Currency: p.Currency,
	})
}

func (s *Server) updateCartItem(c *gin.Context) {
	claims := currentClaims(c)
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "quantity must be positive"})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.cartItems {
		it := &s.store.cartItems[i]
		if it.ID != id || it.UserID != claims.UserID {
			continue
		}
		p, found := s.store.productByID(it.ProductID)
		if !found {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "product not found"})
			return
		}
		it.Quantity = req.Quantity
		c.JSON(http.StatusOK, cartItemJSON{
			ID: it.ID, ProductID: p.ID, ProductName: p.Name,
			Quantity: it.Quantity, PriceMinor: p.PriceMinor, Currency: p.Currency,
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "cart item not found"})
}

func (s *Server) removeCartItem(c *gin.Context) {
	claims := currentClaims(c)
	id, ok := paramID(c)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i, it := range s.store.cartItems {
		if it.ID == id && it.UserID == claims.UserID {
			s.store.cartItems = append(s.store.cartItems[:i], s.store.cartItems[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "cart item not found"})
}

type addressJSON struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Line1    string `json:"line1"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

func (s *Server) listAddresses(c *gin.Context) {
	claims := currentClaims(c)
	s.store.mu.Lock()
	out := make([]addressJSON, 0)
	for _, a := range s.store.addresses {
		if a.UserID == claims.UserID {
			out = append(out, addressJSON{ID: a.ID, FullName: a.FullName, Phone: a.Phone, Line1: a.Line1, City: a.City, Country: a.Country})
		}
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) createAddress(c *gin.Context) {
	claims := currentClaims(c)
	var req addressJSON
	if err := c.ShouldBindJSON(&req); err != nil || req.FullName == "" || req.Line1 == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "full_name and line1 required"})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	a := address{
		ID: s.store.id(), UserID: claims.UserID,
		FullName: req.FullName, Phone: req.Phone, Line1: req.Line1, City: req.City, Country: req.Country,
	}
	s.store.addresses = append(s.store.addresses, a)
	c.JSON(http.StatusCreated, addressJSON{ID: a.ID, FullName: a.FullName, Phone: a.Phone, Line1: a.Line1, City: a.City, Country: a.Country})
}

type orderItemJSON struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	PriceMinor  int64  `json:"price_minor"`
}

type orderJSON struct {
	ID         int64           `json:"id"`
	Status     string          `json:"status"`
	TotalMinor int64           `json:"total_minor"`
	Currency   string          `json:"currency"`
	AddressID  int64           `json:"address"`
	Items      []orderItemJSON `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toOrderJSON(o order) orderJSON {
	items := make([]orderItemJSON, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemJSON{
			ID: it.ID, ProductID: it.ProductID, ProductName: it.ProductName,
			Quantity: it.Quantity, PriceMinor: it.PriceMinor,
		})
	}
	return orderJSON{
		ID: o.ID, Status: o.Status, TotalMinor: o.TotalMinor, Currency: o.Currency,
		AddressID: o.AddressID, Items: items, CreatedAt: o.CreatedAt,
	}
}

const (
	orderStatusPending   = "pending"
	orderStatusConfirmed = "confirmed"
	orderStatusShipping  = "shipping"
	orderStatusDelivered = "delivered"
	orderStatusCancelled = "cancelled"
)

// validTransitions maps each status to the set a seller may move it to.
var validTransitions = map[string][]string{
	orderStatusPending:   {orderStatusConfirmed, orderStatusCancelled},
	orderStatusConfirmed: {orderStatusShipping, orderStatusCancelled},
	orderStatusShipping:  {orderStatusDelivered},
}

func (s *Server) checkout(c *gin.Context) {
	claims := currentClaims(c)
	var req struct {
		AddressID int64 `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.AddressID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "address required"})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	// Replaying an idempotency key returns the original order.
	if key := c.GetHeader("Idempotency-Key"); key != "" {
		if orderID, seen := s.store.checkoutKeys[key]; seen {
			for _, o := range s.store.orders {
				if o.ID == orderID {
					c.JSON(http.StatusOK, toOrderJSON(o))
					return
				}
			}
		}
	}

	var (
		items      []orderItem
		totalMinor int64
		currency   string
		remaining  []cartItem
	)
	for _, it := range s.store.cartItems {
		if it.UserID != claims.UserID {
			remaining = append(remaining, it)
			continue
		}
		p, found := s.store.productByID(it.ProductID)
		if !found {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "product no longer available"})
			return
		}
		if p.Stock < it.Quantity {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "insufficient stock for " + p.Name})
			return
		}
		items = append(items, orderItem{
			ID: s.store.id(), ProductID: p.ID, ProductName: p.Name, SellerID: p.SellerID,
			Quantity: it.Quantity, PriceMinor: p.PriceMinor,
		})
		totalMinor += p.PriceMinor * int64(it.Quantity)
		currency = p.Currency
	}
	if len(items) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "cart is empty"})
		return
	}

	addressOK := false
	for _, a := range s.store.addresses {
		if a.ID == req.AddressID && a.UserID == claims.UserID {
			addressOK = true
			break
		}
	}
	if !addressOK {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "address not found"})
		return
	}

	// Commit: decrement stock, clear the cart, record the order.
	for _, it := range items {
		for i := range s.store.products {
			if s.store.products[i].ID == it.ProductID {
				s.store.products[i].Stock -= it.Quantity
			}
		}
	}
	s.store.cartItems = remaining

	o := order{
		ID: s.store.id(), UserID: claims.UserID, AddressID: req.AddressID,
		Status: orderStatusPending, TotalMinor: totalMinor, Currency: currency,
		Items: items, CreatedAt: s.clock(),
	}
	s.store.orders = append(s.store.orders, o)
	if key := c.GetHeader("Idempotency-Key"); key != "" {
		s.store.checkoutKeys[key] = o.ID
	}

	// One notification per distinct seller involved.
	notified := map[int64]bool{}
	for _, it := range items {
		if notified[it.SellerID] {
			continue
		}
		notified[it.SellerID] = true
		for _, sl := range s.store.sellers {
			if sl.ID == it.SellerID {
				s.store.notify(sl.UserID, rbac.RoleSeller, "New order received", "info", "/seller/orders", s.clock())
			}
		}
	}

	c.JSON(http.StatusCreated, toOrderJSON(o))
}

func (s *Server) listOrders(c *gin.Context) {
	claims := currentClaims(c)
	s.store.mu.Lock()
	out := make([]orderJSON, 0)
	for _, o := range s.store.orders {
		if o.UserID == claims.UserID || claims.IsStaff || claims.IsSuperuser {
			out = append(out, toOrderJSON(o))
		}
	}
	s.store.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) getOrder(c *gin.Context) {
	claims := currentClaims(c)
	id, ok := paramID(c)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, o := range s.store.orders {
		if o.ID != id {
			continue
		}
		if o.UserID != claims.UserID && !claims.IsStaff && !claims.IsSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "not your order"})
			return
		}
		c.JSON(http.StatusOK, toOrderJSON(o))
		return
	}
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "order not found"})
}

// sellerOrderView restricts an order to the items belonging to one seller.
func sellerOrderView(o order, sellerID int64) (orderJSON, bool) {
	var (
		items []orderItemJSON
		total int64
	)
	for _, it := range o.Items {
		if it.SellerID != sellerID {
			continue
		}
		items = append(items, orderItemJSON{
			ID: it.ID, ProductID: it.ProductID, ProductName: it.ProductName,
			Quantity: it.Quantity, PriceMinor: it.PriceMinor,
		})
		total += it.PriceMinor * int64(it.Quantity)
	}
	if len(items) == 0 {
		return orderJSON{}, false
	}
	return orderJSON{
		ID: o.ID, Status: o.Status, TotalMinor: total, Currency: o.Currency,
		AddressID: o.AddressID, Items: items, CreatedAt: o.CreatedAt,
	}, true
}

func (s *Server) listSellerOrders(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	sl, ok := s.approvedSeller(c)
	if !ok {
		return
	}
	out := make([]orderJSON, 0)
	for _, o := range s.store.orders {
		if view, has := sellerOrderView(o, sl.ID); has {
			out = append(out, view)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) updateSellerOrderStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "status required"})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	sl, ok := s.approvedSeller(c)
	if !ok {
		return
	}
	for i := range s.store.orders {
		o := &s.store.orders[i]
		if o.ID != id {
			continue
		}
		if _, has := sellerOrderView(*o, sl.ID); !has {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "order has none of your items"})
			return
		}
		allowed := false
		for _, next := range validTransitions[o.Status] {
			if next == req.Status {
				allowed = true
				break
			}
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid status transition"})
			return
		}
		o.Status = req.Status
		s.store.notify(o.UserID, rbac.RoleCustomer, "Order #"+strconv.FormatInt(o.ID, 10)+" is now "+o.Status, "info", "/orders", s.clock())

		view, _ := sellerOrderView(*o, sl.ID)
		c.JSON(http.StatusOK, view)
		return
	}
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "order not found"})
}

func (s *Server) sellerStats(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	sl, ok := s.approvedSeller(c)
	if !ok {
		return
	}

	var (
		totalProducts int
		totalOrders   int
		revenueMinor  int64
		currency      string
	)
	for _, p := range s.store.products {
		if p.SellerID == sl.ID {
			totalProducts++
			currency = p.Currency
		}
	}
	for _, o := range s.store.orders {
		view, has := sellerOrderView(o, sl.ID)
		if !has || o.Status == orderStatusCancelled {
			continue
		}
		totalOrders++
		revenueMinor += view.TotalMinor
		currency = view.Currency
	}
	c.JSON(http.StatusOK, gin.H{
		"total_products": totalProducts,
		"total_orders":   totalOrders,
		"revenue_minor":  revenueMinor,
		"currency":       currency,
	})
}
