package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/po-composer/internal/application/service"
	"github.com/sangkips/po-composer/internal/config"
	"github.com/sangkips/po-composer/internal/presentation/http/handler"
	"github.com/sangkips/po-composer/internal/presentation/http/middleware"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Session *handler.SessionHandler
	Draft   *handler.DraftHandler
	Catalog *handler.CatalogHandler
	Order   *handler.OrderHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg      *config.Config
	Sessions *service.SessionManager
	Logger   logrus.FieldLogger
}

// Setup creates the Gin router and registers all routes. The returned stop
// function ends the rate limiter's cleanup loop.
func Setup(h *Handlers, deps *Deps) (*gin.Engine, func()) {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":   "ok",
			"service":  deps.Cfg.App.Name,
			"sessions": deps.Sessions.Len(),
		})
	})

	rateLimiter := middleware.NewSessionRateLimiter(rateLimiterConfig(deps.Cfg.RateLimit))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/sessions", h.Session.Open)

		// Session routes
		protected := v1.Group("")
		protected.Use(middleware.SessionMiddleware(deps.Sessions))
		protected.Use(rateLimiter.Middleware())

		registerDraftRoutes(protected, h)
		registerCatalogRoutes(protected, h)
		protected.GET("/orders", h.Order.List)
	}

	return router, rateLimiter.Stop
}

func rateLimiterConfig(cfg config.RateLimitConfig) middleware.RateLimiterConfig {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	rl.CleanupInterval = 5 * time.Minute
	return rl
}

func registerDraftRoutes(protected *gin.RouterGroup, h *Handlers) {
	draft := protected.Group("/draft")
	{
		draft.GET("", h.Draft.Get)
		draft.DELETE("", h.Draft.Clear)
		draft.PATCH("/header", h.Draft.UpdateHeader)
		draft.POST("/items", h.Draft.AddItem)
		draft.PATCH("/items/:index", h.Draft.UpdateItem)
		draft.DELETE("/items/:index", h.Draft.RemoveItem)
		draft.POST("/items/:index/product", h.Draft.ApplyProduct)
		draft.POST("/restore", h.Draft.AcceptRestore)
		draft.DELETE("/restore", h.Draft.DiscardRestore)
		draft.POST("/submit", h.Draft.Submit)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	catalog := protected.Group("/catalog")
	{
		catalog.GET("/suppliers", h.Catalog.Suppliers)
		catalog.POST("/suppliers", h.Catalog.CreateSupplier)
		catalog.GET("/suppliers/:id/autofill", h.Catalog.SupplierAutofill)
		catalog.GET("/products", h.Catalog.Products)
		catalog.POST("/products", h.Catalog.CreateProduct)
		catalog.GET("/products/:id/autofill", h.Catalog.ProductAutofill)
	}
}
