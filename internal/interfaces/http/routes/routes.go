// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xavisavvy/toa-website-sub001/internal/config"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/cart"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/catalog"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/checkout"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/content"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/inquiry"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/order"
	"github.com/xavisavvy/toa-website-sub001/internal/interfaces/http/handlers"
	"github.com/xavisavvy/toa-website-sub001/internal/interfaces/http/middleware"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/cache"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/flags"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/pdf"
)

// Dependencies carries the wired services the routes need. All construction
// happens in cmd/api; routes only bind handlers to paths.
type Dependencies struct {
	Config          *config.Config
	Logger          *logrus.Logger
	Flags           *flags.Registry
	CartService     *cart.Service
	CatalogService  *catalog.Service
	CheckoutService *checkout.Service
	ContentService  *content.Service
	OrderService    *order.Service
	InquiryService  *inquiry.Service
	PDFService      *pdf.Service
	CacheStore      cache.Store
}

// SetupRoutes binds every API route group.
func SetupRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	setupStoreRoutes(rg, deps)
	setupCartRoutes(rg, deps)
	setupCheckoutRoutes(rg, deps)
	setupContentRoutes(rg, deps)
	setupInquiryRoutes(rg, deps)
	setupFlagRoutes(rg, deps)
	setupOpsRoutes(rg, deps)
}

// SetupWebhookRoutes binds the payment webhook outside the API group so it
// skips rate limiting and flag guards: Stripe retries must always land.
func SetupWebhookRoutes(r *gin.Engine, deps *Dependencies) {
	webhookHandler := handlers.NewWebhookHandler(deps.CheckoutService, deps.Logger)

	r.POST("/webhooks/stripe", webhookHandler.HandleStripe)
}

func setupStoreRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	storeHandler := handlers.NewStoreHandler(deps.CatalogService)

	store := rg.Group("/store")
	store.Use(middleware.RequireFlag(deps.Flags, flags.FlagStore))
	{
		store.GET("/products", storeHandler.ListProducts)
		store.GET("/products/:id", storeHandler.GetProduct)

		estimates := store.Group("")
		estimates.Use(middleware.RequireFlag(deps.Flags, flags.FlagShippingEstimates))
		{
			estimates.POST("/shipping-estimates", storeHandler.EstimateShipping)
		}
	}
}

func setupCartRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.CartService, deps.CatalogService, deps.Config)

	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.RequireFlag(deps.Flags, flags.FlagStore))
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PUT("/items/:id", cartHandler.UpdateCartItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveCartItem)
		cartGroup.POST("/validate", cartHandler.ValidateCart)
	}
}

func setupCheckoutRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.CheckoutService, deps.Config)

	checkoutGroup := rg.Group("/checkout")
	checkoutGroup.Use(middleware.RequireFlag(deps.Flags, flags.FlagCheckout))
	{
		checkoutGroup.POST("", checkoutHandler.Create)
		checkoutGroup.GET("/sessions/:id", checkoutHandler.GetSession)
	}
}

func setupContentRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	contentHandler := handlers.NewContentHandler(deps.ContentService, deps.Config)

	contentGroup := rg.Group("/content")
	{
		episodes := contentGroup.Group("")
		episodes.Use(middleware.RequireFlag(deps.Flags, flags.FlagEpisodes))
		{
			episodes.GET("/episodes", contentHandler.ListEpisodes)
		}

		podcast := contentGroup.Group("")
		podcast.Use(middleware.RequireFlag(deps.Flags, flags.FlagPodcast))
		{
			podcast.GET("/podcast", contentHandler.GetPodcast)
		}
	}
}

func setupInquiryRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	inquiryHandler := handlers.NewInquiryHandler(deps.InquiryService)

	inquiries := rg.Group("/inquiries")
	inquiries.Use(middleware.RequireFlag(deps.Flags, flags.FlagSponsorship))
	{
		inquiries.POST("", inquiryHandler.Submit)
	}
}

func setupFlagRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	flagsHandler := handlers.NewFlagsHandler(deps.Flags)

	// Public, unguarded: the frontend bootstraps its feature set from this.
	rg.GET("/flags", flagsHandler.Evaluate)
}

func setupOpsRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Config, deps.Logger)
	flagsHandler := handlers.NewFlagsHandler(deps.Flags)
	ordersHandler := handlers.NewOrdersHandler(deps.OrderService, deps.PDFService)
	inquiryHandler := handlers.NewInquiryHandler(deps.InquiryService)
	cacheHandler := handlers.NewCacheHandler(deps.CacheStore, deps.Logger)

	ops := rg.Group("/ops")
	{
		ops.POST("/login", authHandler.Login)

		protected := ops.Group("")
		protected.Use(middleware.OpsAuth(deps.Config))
		{
			// Flag management
			protected.GET("/flags", flagsHandler.List)
			protected.PUT("/flags/:name", flagsHandler.Override)
			protected.DELETE("/flags", flagsHandler.Reset)

			// Order management
			protected.GET("/orders", ordersHandler.List)
			protected.GET("/orders/:number", ordersHandler.Get)
			protected.POST("/orders/:number/fulfill", ordersHandler.MarkFulfilled)
			protected.GET("/orders/:number/receipt", ordersHandler.Receipt)

			// Inquiry review
			protected.GET("/inquiries", inquiryHandler.List)
			protected.PUT("/inquiries/:id/status", inquiryHandler.UpdateStatus)

			// Upstream cache purge
			protected.DELETE("/cache/:namespace", cacheHandler.Purge)
		}
	}
}
