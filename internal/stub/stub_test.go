package stub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-client/internal/api"
	"marketplace-client/internal/auth"
	"marketplace-client/internal/config"
	"marketplace-client/internal/rbac"
	"marketplace-client/pkg/logger"
)

type bearer struct{ token string }

func (b *bearer) AccessToken() (string, error) { return b.token, nil }

// newTestServer spins up the stub behind httptest and returns a client plus
// its mutable token source.
func newTestServer(t *testing.T) (*api.Client, *bearer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.StubConfig{
		Port:       8000,
		JWTSecret:  "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
	srv, err := New(cfg, logger.New("test"))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	tokens := &bearer{}
	client, err := api.NewClient(api.Options{BaseURL: ts.URL, Tokens: tokens})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return client, tokens
}

func login(t *testing.T, client *api.Client, tokens *bearer, username, password string) {
	t.Helper()
	pair, err := client.Login(context.Background(), username, password)
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	tokens.token = pair.Access
}

func TestLogin_IssuesDecodableToken(t *testing.T) {
	client, _ := newTestServer(t)

	pair, err := client.Login(context.Background(), "casey", "customer123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims := auth.Decode(pair.Access)
	if claims == nil {
		t.Fatalf("access token did not decode")
	}
	if claims.Username != "casey" || claims.IsStaff {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	client, _ := newTestServer(t)

	_, err := client.Login(context.Background(), "casey", "wrong")
	if !api.IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMe_RequiresToken(t *testing.T) {
	client, tokens := newTestServer(t)

	if _, err := client.Me(context.Background()); !api.IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401 without token, got %v", err)
	}

	login(t, client, tokens, "admin", "admin123")
	me, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Username != "admin" || !me.IsStaff {
		t.Fatalf("unexpected profile: %+v", me)
	}
}

func TestCheckoutFlow(t *testing.T) {
	client, tokens := newTestServer(t)
	ctx := context.Background()
	login(t, client, tokens, "casey", "customer123")

	products, err := client.Products(ctx, api.ProductQuery{})
	if err != nil || len(products) == 0 {
		t.Fatalf("products: %v (%d)", err, len(products))
	}
	hub := products[0]

	addr, err := client.CreateAddress(ctx, api.AddressInput{
		FullName: "Casey Doe", Line1: "1 Main St", City: "Springfield", Country: "US",
	})
	if err != nil {
		t.Fatalf("create address: %v", err)
	}

	if _, err := client.AddCartItem(ctx, hub.ID, 2); err != nil {
		t.Fatalf("add cart item: %v", err)
	}
	cart, err := client.Cart(ctx)
	if err != nil {
		t.Fatalf("cart: %v", err)
	}
	if cart.TotalMinor != 2*hub.PriceMinor {
		t.Fatalf("cart total = %d, want %d", cart.TotalMinor, 2*hub.PriceMinor)
	}

	order, err := client.Checkout(ctx, addr.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if order.Status != api.OrderStatusPending || order.TotalMinor != cart.TotalMinor {
		t.Fatalf("unexpected order: %+v", order)
	}

	// The cart is consumed and stock decremented.
	cart, err = client.Cart(ctx)
	if err != nil {
		t.Fatalf("cart after checkout: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("cart not cleared: %+v", cart.Items)
	}
	got, err := client.Product(ctx, hub.ID)
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	if got.Stock != hub.Stock-2 {
		t.Fatalf("stock = %d, want %d", got.Stock, hub.Stock-2)
	}

	// A second checkout with nothing in the cart fails.
	if _, err := client.Checkout(ctx, addr.ID); !api.IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("expected 400 for empty cart, got %v", err)
	}
}

func TestCheckoutNotifiesSeller(t *testing.T) {
	client, tokens := newTestServer(t)
	ctx := context.Background()

	login(t, client, tokens, "casey", "customer123")
	products, _ := client.Products(ctx, api.ProductQuery{})
	addr, _ := client.CreateAddress(ctx, api.AddressInput{FullName: "Casey Doe", Line1: "1 Main St"})
	if _, err := client.AddCartItem(ctx, products[0].ID, 1); err != nil {
		t.Fatalf("add cart item: %v", err)
	}
	if _, err := client.Checkout(ctx, addr.ID); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	login(t, client, tokens, "seller_sam", "seller123")
	notifs, err := client.Notifications(ctx)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	found := false
	for _, n := range notifs {
		if n.Message == "New order received" && n.TargetRole == rbac.RoleSeller {
			found = true
		}
	}
	if !found {
		t.Fatalf("seller never notified: %+v", notifs)
	}
}

func TestSellerLifecycle(t *testing.T) {
	client, tokens := newTestServer(t)
	ctx := context.Background()

	// A fresh customer applies for a shop.
	if _, err := client.Register(ctx, api.RegisterRequest{Username: "newbie", Email: "n@example.com", Password: "pw12345"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	login(t, client, tokens, "newbie", "pw12345")
	app, err := client.RegisterSeller(ctx, api.SellerRegistration{ShopName: "Newbie's Nook"})
	if err != nil {
		t.Fatalf("register seller: %v", err)
	}
	if app.IsApproved {
		t.Fatalf("new application must start unapproved")
	}

	// Unapproved sellers cannot manage products.
	if _, err := client.SellerProducts(ctx); !api.IsStatus(err, http.StatusForbidden) {
		t.Fatalf("expected 403 before approval, got %v", err)
	}

	// An admin approves the shop.
	login(t, client, tokens, "admin", "admin123")
	approved, err := client.SetSellerApproval(ctx, app.ID, true)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !approved.IsApproved {
		t.Fatalf("approval did not stick: %+v", approved)
	}

	// The owner can now add a product and sees the approval notification.
	login(t, client, tokens, "newbie", "pw12345")
	cats, err := client.Categories(ctx)
	if err != nil || len(cats) == 0 {
		t.Fatalf("categories: %v", err)
	}
	p, err := client.CreateProduct(ctx, api.ProductInput{
		Name: "Hand-knit Scarf", PriceMinor: 2500, Currency: "USD", Stock: 3, CategoryID: cats[0].ID,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if p.SellerID != app.ID {
		t.Fatalf("product not attached to seller: %+v", p)
	}

	notifs, err := client.Notifications(ctx)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	found := false
	for _, n := range notifs {
		if n.TargetRole == rbac.RoleSeller && !n.IsRead {
			found = true
			if err := client.MarkNotificationRead(ctx, n.ID); err != nil {
				t.Fatalf("mark read: %v", err)
			}
		}
	}
	if !found {
		t.Fatalf("approval notification missing: %+v", notifs)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	client, tokens := newTestServer(t)
	ctx := context.Background()
	login(t, client, tokens, "casey", "customer123")

	profiles, err := client.Profiles(ctx)
	if err != nil || len(profiles) != 1 {
		t.Fatalf("profiles: %v (%d)", err, len(profiles))
	}
	if profiles[0].Role != rbac.RoleCustomer {
		t.Fatalf("role = %q, want customer", profiles[0].Role)
	}

	updated, err := client.UpdateProfile(ctx, profiles[0].ID, "hello", "")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Bio != "hello" {
		t.Fatalf("bio not persisted: %+v", updated)
	}
}

func TestStaffEndpointsAreGated(t *testing.T) {
	client, tokens := newTestServer(t)
	ctx := context.Background()

	login(t, client, tokens, "casey", "customer123")
	if _, err := client.Users(ctx); !api.IsStatus(err, http.StatusForbidden) {
		t.Fatalf("expected 403 for non-staff, got %v", err)
	}

	login(t, client, tokens, "admin", "admin123")
	users, err := client.Users(ctx)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if len(users) < 3 {
		t.Fatalf("expected seeded users, got %d", len(users))
	}
}

func TestSellerOrderStatusTransitions(t *testing.T) {
	client, tokens := newTestServer(t)
	ctx := context.Background()

	login(t, client, tokens, "casey", "customer123")
	products, _ := client.Products(ctx, api.ProductQuery{})
	addr, _ := client.CreateAddress(ctx, api.AddressInput{FullName: "Casey Doe", Line1: "1 Main St"})
	if _, err := client.AddCartItem(ctx, products[0].ID, 1); err != nil {
		t.Fatalf("add cart item: %v", err)
	}
	placed, err := client.Checkout(ctx, addr.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	login(t, client, tokens, "seller_sam", "seller123")
	orders, err := client.SellerOrders(ctx)
	if err != nil || len(orders) != 1 {
		t.Fatalf("seller orders: %v (%d)", err, len(orders))
	}

	// pending cannot jump straight to delivered
	if _, err := client.UpdateSellerOrderStatus(ctx, placed.ID, api.OrderStatusDelivered); !api.IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
	updated, err := client.UpdateSellerOrderStatus(ctx, placed.ID, api.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if updated.Status != api.OrderStatusConfirmed {
		t.Fatalf("status = %q", updated.Status)
	}

	stats, err := client.SellerStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalOrders != 1 || stats.RevenueMinor != placed.TotalMinor {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Currency != placed.Currency {
		t.Fatalf("stats currency = %q, want %q", stats.Currency, placed.Currency)
	}
}
