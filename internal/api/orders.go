package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of the active cart.
type CartItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	PriceMinor  int64  `json:"price_minor"`
	Currency    string `json:"currency"`
}

// Cart is the server-side cart of the authenticated user.
type Cart struct {
	ID         int64      `json:"id"`
	Items      []CartItem `json:"items"`
	TotalMinor int64      `json:"total_minor"`
	Currency   string     `json:"currency"`
}

func (c *Client) Cart(ctx context.Context) (Cart, error) {
	var out Cart
	err := c.do(ctx, request{method: http.MethodGet, path: "/cart/", out: &out})
	return out, err
}

func (c *Client) AddCartItem(ctx context.Context, productID int64, quantity int) (CartItem, error) {
	var item CartItem
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/cart/items/",
		body:   map[string]any{"product": productID, "quantity": quantity},
		out:    &item,
	})
	return item, err
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (CartItem, error) {
	var item CartItem
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/cart/items/%d/", itemID),
		body:   map[string]int{"quantity": quantity},
		out:    &item,
	})
	return item, err
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/cart/items/%d/", itemID)})
}

// Address is a shipping address owned by the current user.
type Address struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Line1    string `json:"line1"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

func (c *Client) Addresses(ctx context.Context) ([]Address, error) {
	var out []Address
	err := c.do(ctx, request{method: http.MethodGet, path: "/order/address/", out: &out})
	return out, err
}

// AddressInput creates a shipping address.
type AddressInput struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Line1    string `json:"line1"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

func (c *Client) CreateAddress(ctx context.Context, in AddressInput) (Address, error) {
	var a Address
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/order/address/",
		body:   in,
		out:    &a,
	})
	return a, err
}

// Order status values as the server reports them. Transitions are entirely
// server-side; the client only displays and requests them.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipping  = "shipping"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type OrderItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	PriceMinor  int64  `json:"price_minor"`
}

type Order struct {
	ID         int64       `json:"id"`
	Status     string      `json:"status"`
	TotalMinor int64       `json:"total_minor"`
	Currency   string      `json:"currency"`
	AddressID  int64       `json:"address"`
	Items      []OrderItem `json:"items"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Checkout turns the active cart into an order. The generated idempotency key
// makes an accidental retry return the original order rather than a second
// one.
func (c *Client) Checkout(ctx context.Context, addressID int64) (Order, error) {
	header := http.Header{}
	header.Set("Idempotency-Key", uuid.NewString())

	var o Order
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/order/orders/",
		header: header,
		body:   map[string]int64{"address": addressID},
		out:    &o,
	})
	return o, err
}

// Orders lists the orders visible to the current user. Staff accounts see all
// orders; everyone else sees their own.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var out []Order
	err := c.do(ctx, request{method: http.MethodGet, path: "/order/orders/", out: &out})
	return out, err
}

func (c *Client) Order(ctx context.Context, id int64) (Order, error) {
	var o Order
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/order/orders/%d/", id), out: &o})
	return o, err
}

// --- Seller order management ---

// SellerOrders lists orders containing the authenticated seller's products.
func (c *Client) SellerOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	err := c.do(ctx, request{method: http.MethodGet, path: "/order/seller-orders/", out: &out})
	return out, err
}

// UpdateSellerOrderStatus requests a status transition for one order. The
// server validates the transition.
func (c *Client) UpdateSellerOrderStatus(ctx context.Context, orderID int64, status string) (Order, error) {
	var o Order
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/order/seller-order-detail/%d/", orderID),
		body:   map[string]string{"status": status},
		out:    &o,
	})
	return o, err
}

// SellerStats is the aggregate the seller dashboard shows. Currency qualifies
// RevenueMinor.
type SellerStats struct {
	TotalProducts int    `json:"total_products"`
	TotalOrders   int    `json:"total_orders"`
	RevenueMinor  int64  `json:"revenue_minor"`
	Currency      string `json:"currency"`
}

func (c *Client) SellerStats(ctx context.Context) (SellerStats, error) {
	var s SellerStats
	err := c.do(ctx, request{method: http.MethodGet, path: "/order/seller-stats/", out: &s})
	return s, err
}

// --- Admin moderation ---

// Users lists all user accounts (staff only).
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	err := c.do(ctx, request{method: http.MethodGet, path: "/account/users/", out: &out})
	return out, err
}

// SetSellerApproval approves or revokes a seller application (staff only).
func (c *Client) SetSellerApproval(ctx context.Context, sellerID int64, approved bool) (Seller, error) {
	var s Seller
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/account/seller/%d/", sellerID),
		body:   map[string]bool{"is_approved": approved},
		out:    &s,
	})
	return s, err
}
