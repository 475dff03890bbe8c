package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/raynott/storefront/internal/backend"
	"github.com/raynott/storefront/internal/cart"
	"github.com/raynott/storefront/internal/catalog"
	"github.com/raynott/storefront/internal/checkout"
	"github.com/raynott/storefront/internal/config"
	"github.com/raynott/storefront/internal/events"
	"github.com/raynott/storefront/internal/httpserver"
	"github.com/raynott/storefront/internal/logging"
	"github.com/raynott/storefront/internal/middleware"
	"github.com/raynott/storefront/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	config.MustNonEmpty(cfg.BackendURL, "BACKEND_URL")
	config.MustNonEmptyBytes(cfg.SessionSecret, "SESSION_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", "storefront")
	slog.SetDefault(logger)

	db, err := session.Open(cfg.SessionDBPath)
	if err != nil {
		log.Fatalf("session db: %v", err)
	}

	client := backend.NewClient(cfg.BackendURL)
	sessions := session.NewStore(db, client)
	carts := cart.NewStore()
	searchers := catalog.NewStore(client, cfg.SearchDebounce)
	flow := checkout.NewService(client)

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if producer == nil {
		logger.Info("event publishing disabled, no brokers configured")
	}
	defer producer.Close()

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Backend:       client,
		Carts:         carts,
		Searchers:     searchers,
		Sessions:      sessions,
		Checkout:      flow,
		Producer:      producer,
		SessionSecret: cfg.SessionSecret,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("storefront listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("storefront stopped")
}
