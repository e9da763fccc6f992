package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Le-Yoy/brendt-store-sub001/internal/config"
	apphttp "github.com/Le-Yoy/brendt-store-sub001/internal/http"
	"github.com/Le-Yoy/brendt-store-sub001/internal/http/clientcookie"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/cart"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/checkout"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/orders"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/payments"
	"github.com/Le-Yoy/brendt-store-sub001/internal/shared/validation"
	"github.com/Le-Yoy/brendt-store-sub001/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	ctx := context.Background()

	var db *gorm.DB
	if cfg.StorageDriver == "db" {
		db, err = gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
	}

	durable, err := storage.DurableFromConfig(ctx, cfg, db)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	logger.Info("storage ready", "durable", durable.Driver, "session_ttl", cfg.SessionTTL.String())

	adapter := storage.NewAdapter(
		storage.NewSessionTier(cfg.SessionMaxKeys, cfg.SessionTTL),
		durable.Durable,
		logger,
	)
	carts := cart.NewRegistry(adapter, cfg.SessionMaxKeys, cfg.CartPageTTL, logger)

	// No retries: one attempt per call, bounded by the timeout.
	hc := &http.Client{Timeout: cfg.RequestTimeout}
	deps := checkout.Deps{
		Carts:    carts,
		Storage:  adapter,
		Orders:   orders.NewClient(cfg.OrderAPIURL, hc),
		Payments: payments.NewHTTPProvider(cfg.PaymentAPIURL, cfg.PaymentAPIKey, hc),
		Pricing:  checkout.PricingFromConfig(cfg),
		BaseURL:  cfg.BaseURL,
		Logger:   logger,
	}

	if err := validation.ConfigureGin(); err != nil {
		log.Fatalf("validation: %v", err)
	}

	r := apphttp.NewRouter(apphttp.Deps{
		Logger:   logger,
		Cookies:  clientcookie.New(cfg.ClientCookieSecret, cfg.ClientCookieName, cfg.CookieSecure),
		Carts:    carts,
		Checkout: checkout.NewService(deps),
		Resolver: checkout.NewResolver(deps),
	})

	logger.Info("listening", "addr", cfg.Addr, "env", cfg.Env)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
