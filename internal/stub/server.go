package stub

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-client/internal/config"
	"marketplace-client/pkg/logger"
)

// Server is an in-memory rendition of the marketplace API. It exists so the
// CLI has something real to talk to during development and so integration
// tests can run against actual HTTP instead of hand-built fakes.
type Server struct {
	cfg    config.StubConfig
	log    *slog.Logger
	tokens *tokenManager
	store  *memoryStore
	clock  func() time.Time
}

func New(cfg config.StubConfig, log *slog.Logger) (*Server, error) {
	tm, err := newTokenManager(cfg)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:    cfg,
		log:    log,
		tokens: tm,
		store:  newMemoryStore(),
		clock:  time.Now,
	}
	s.store.seed(s.clock())
	return s, nil
}

// Router builds the gin engine with every marketplace route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(s.log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/token/", s.login)
	r.POST("/account/register/", s.register)

	authed := r.Group("/", s.requireAuth())
	{
		authed.GET("/account/me/", s.me)
		authed.GET("/account/profiles/", s.listProfiles)
		authed.PATCH("/account/profiles/:id/", s.updateProfile)
		authed.GET("/account/seller/", s.listSellers)
		authed.POST("/account/seller/", s.registerSeller)
		authed.GET("/account/notifications/", s.listNotifications)
		authed.PATCH("/account/notifications/:id/", s.markNotificationRead)

		authed.GET("/product/", s.listProducts)
		authed.GET("/product/seller/", s.listSellerProducts)
		authed.POST("/product/seller/", s.createProduct)
		authed.PUT("/product/seller/:id/", s.updateProduct)
		authed.DELETE("/product/seller/:id/", s.deleteProduct)
		authed.GET("/product/:id/", s.getProduct)
		authed.GET("/category/", s.listCategories)

		authed.GET("/cart/", s.getCart)
		authed.POST("/cart/items/", s.addCartItem)
		authed.PATCH("/cart/items/:id/", s.updateCartItem)
		authed.DELETE("/cart/items/:id/", s.removeCartItem)

		authed.GET("/order/address/", s.listAddresses)
		authed.POST("/order/address/", s.createAddress)
		authed.POST("/order/orders/", s.checkout)
		authed.GET("/order/orders/", s.listOrders)
		authed.GET("/order/orders/:id/", s.getOrder)
		authed.GET("/order/seller-orders/", s.listSellerOrders)
		authed.PATCH("/order/seller-order-detail/:id/", s.updateSellerOrderStatus)
		authed.GET("/order/seller-stats/", s.sellerStats)

		staff := authed.Group("/", s.requireStaff())
		{
			staff.GET("/account/users/", s.listUsers)
			staff.PATCH("/account/seller/:id/", s.setSellerApproval)
			staff.POST("/category/", s.createCategory)
			staff.DELETE("/category/:id/", s.deleteCategory)
		}
	}

	return r
}
