package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Le-Yoy/brendt-store-sub001/internal/stubapi"
)

func main() {
	addr := flag.String("addr", ":9090", "Listen address")
	dbPath := flag.String("db", "stubapi.db", "SQLite file for orders and sessions")
	publicURL := flag.String("public-url", "http://localhost:9090", "Base URL used in hosted payment links")
	apiKey := flag.String("api-key", os.Getenv("PAYMENT_API_KEY"), "Bearer key required on /payments (empty disables)")
	requireToken := flag.Bool("require-token", false, "Reject order calls without a bearer token")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("open %s: %v", *dbPath, err)
	}

	s := stubapi.New(db, stubapi.Options{
		PublicURL:    *publicURL,
		APIKey:       *apiKey,
		RequireToken: *requireToken,
		Logger:       logger,
	})
	if err := s.Repo().Migrate(context.Background()); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	logger.Info("stub api listening", "addr", *addr, "db", *dbPath)
	srv := &http.Server{Addr: *addr, Handler: s.Handler()}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
