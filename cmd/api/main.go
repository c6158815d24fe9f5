// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xavisavvy/toa-website-sub001/internal/config"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/cart"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/catalog"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/checkout"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/content"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/inquiry"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/order"
	"github.com/xavisavvy/toa-website-sub001/internal/infrastructure/database/postgres"
	"github.com/xavisavvy/toa-website-sub001/internal/infrastructure/database/redis"
	httpserver "github.com/xavisavvy/toa-website-sub001/internal/interfaces/http"
	"github.com/xavisavvy/toa-website-sub001/internal/interfaces/http/routes"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/cache"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/email"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/flags"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/logging"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/pdf"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg)
	logger.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to database
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Run database migrations
	migration := postgres.NewMigration(db)
	if err := migration.RunAutoMigrations(); err != nil {
		logger.Fatalf("Database migration failed: %v", err)
	}
	if err := migration.CreateIndexes(); err != nil {
		logger.Warnf("Index creation failed: %v", err)
	}
	if cfg.IsDevelopment() {
		migration.GetTableInfo()
	}

	// Shared caches and stores
	cacheStore := cache.NewRedisStore(redisClient.GetClient())
	cartStore := cart.NewRedisStore(redisClient.GetClient(), cfg.Cart.SessionPrefix)

	// Outbound clients
	printfulClient := catalog.NewClient(cfg)
	stripeClient := checkout.NewStripeClient(cfg)
	youtubeClient := content.NewYouTubeClient(cfg)
	podcastClient := content.NewPodcastClient(cfg.External.Podcast.FeedURL)

	mailer, err := email.NewService(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize email service: %v", err)
	}

	// Domain services
	catalogService := catalog.NewService(printfulClient, cacheStore, cfg.Cache.ProductTTL, logger)
	cartService := cart.NewService(cartStore, cfg, logger)
	orderService := order.NewService(db, logger)
	checkoutService := checkout.NewService(cartService, catalogService, orderService, stripeClient, mailer, cfg, logger)
	contentService := content.NewService(youtubeClient, podcastClient, cacheStore, cfg, logger)
	inquiryService := inquiry.NewService(db, mailer, logger)
	pdfService := pdf.NewService(cfg)

	registry := flags.NewRegistry(cfg.App.Environment, flags.Defaults(), flags.EnvironmentOverrides(), logger)

	logger.Info("✅ All systems operational!")

	deps := &routes.Dependencies{
		Config:          cfg,
		Logger:          logger,
		Flags:           registry,
		CartService:     cartService,
		CatalogService:  catalogService,
		CheckoutService: checkoutService,
		ContentService:  contentService,
		OrderService:    orderService,
		InquiryService:  inquiryService,
		PDFService:      pdfService,
		CacheStore:      cacheStore,
	}

	server := httpserver.NewServer(cfg, logger, db, redisClient.GetClient(), deps)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("👋 Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	logger.Info("✅ Server shutdown completed")
}
