package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Product is a catalog entry. Prices are integer minor units to keep money
// arithmetic exact on both sides of the wire.
type Product struct {
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

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductQuery narrows a catalog listing. Zero values mean "no filter".
type ProductQuery struct {
	Search     string
	CategoryID int64
}

func (c *Client) Products(ctx context.Context, q ProductQuery) ([]Product, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.CategoryID > 0 {
		query.Set("category", strconv.FormatInt(q.CategoryID, 10))
	}
	var out []Product
	err := c.do(ctx, request{method: http.MethodGet, path: "/product/", query: query, out: &out})
	return out, err
}

func (c *Client) Product(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/product/%d/", id), out: &p})
	return p, err
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := c.do(ctx, request{method: http.MethodGet, path: "/category/", out: &out})
	return out, err
}

// --- Seller catalog management ---

// SellerProducts lists the products owned by the authenticated seller.
func (c *Client) SellerProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	err := c.do(ctx, request{method: http.MethodGet, path: "/product/seller/", out: &out})
	return out, err
}

// ProductInput is the create/update payload for a seller's product.
type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceMinor  int64  `json:"price_minor"`
	Currency    string `json:"currency"`
	Stock       int    `json:"stock"`
	CategoryID  int64  `json:"category"`
	ImageURL    string `json:"image,omitempty"`
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	var p Product
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/product/seller/",
		body:   in,
		out:    &p,
	})
	return p, err
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (Product, error) {
	var p Product
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/product/seller/%d/", id),
		body:   in,
		out:    &p,
	})
	return p, err
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/product/seller/%d/", id)})
}

// --- Admin category moderation ---

func (c *Client) CreateCategory(ctx context.Context, name string) (Category, error) {
	var cat Category
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/category/",
		body:   map[string]string{"name": name},
		out:    &cat,
	})
	return cat, err
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/category/%d/", id)})
}
