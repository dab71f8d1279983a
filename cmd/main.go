package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/manya112233/canteen/internal/adapter/flatfile"
	"github.com/manya112233/canteen/internal/adapter/logger"
	"github.com/manya112233/canteen/internal/adapter/postgres"
	"github.com/manya112233/canteen/internal/app/catalog"
	"github.com/manya112233/canteen/internal/app/scheduler"
	"github.com/manya112233/canteen/internal/config"
	"github.com/manya112233/canteen/internal/interfaces"

	httpAdapter "github.com/manya112233/canteen/internal/adapter/http"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	storageDriver := flag.String("storage", "", "Order store driver: file or postgres (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *storageDriver != "" {
		cfg.Storage.Driver = *storageDriver
	}

	ctx := context.Background()

	lgr := logger.New("canteen")

	// Select the order store backend
	var store interfaces.OrderStore
	switch cfg.Storage.Driver {
	case "file":
		store = flatfile.NewStore(cfg.Storage.Path, lgr)
		lgr.Info("store_ready", "Using flat-file order store", "startup", map[string]interface{}{
			"path": cfg.Storage.Path,
		})

	case "postgres":
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()
		store = postgres.NewOrderStore(db)
		lgr.Info("store_ready", "Using PostgreSQL order store", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})

	default:
		log.Fatalf("Invalid storage driver: %s", cfg.Storage.Driver)
	}

	// Core services. The scheduler rebuilds its history from the store here;
	// pending queues start empty.
	orderScheduler := scheduler.NewService(store, lgr)
	itemCatalog := catalog.NewService(lgr)

	// HTTP handlers
	orderHandler := httpAdapter.NewOrderHandler(orderScheduler, itemCatalog, lgr)
	trackingHandler := httpAdapter.NewTrackingHandler(orderScheduler, lgr)
	catalogHandler := httpAdapter.NewCatalogHandler(itemCatalog, lgr)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", orderHandler.PlaceOrder)
	mux.HandleFunc("POST /orders/{id}/status", orderHandler.UpdateStatus)
	mux.HandleFunc("GET /orders", trackingHandler.AllOrders)
	mux.HandleFunc("GET /orders/pending", trackingHandler.PendingOrders)
	mux.HandleFunc("GET /orders/{id}", trackingHandler.GetOrder)
	mux.HandleFunc("GET /customers/{id}/orders", trackingHandler.CustomerHistory)

	mux.HandleFunc("POST /catalog/items", catalogHandler.AddItem)
	mux.HandleFunc("GET /catalog/items", catalogHandler.ListItems)
	mux.HandleFunc("GET /catalog/items/{id}", catalogHandler.GetItem)
	mux.HandleFunc("DELETE /catalog/items/{id}", catalogHandler.RemoveItem)
	mux.HandleFunc("PUT /catalog/items/{id}/price", catalogHandler.UpdatePrice)
	mux.HandleFunc("PUT /catalog/items/{id}/availability", catalogHandler.UpdateAvailability)
	mux.HandleFunc("GET /catalog/categories", catalogHandler.Categories)

	handler := httpAdapter.LoggingMiddleware(lgr)(mux)
	handler = httpAdapter.RecoveryMiddleware(lgr)(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Canteen service started on port %d", cfg.Server.Port), "startup", map[string]interface{}{
		"port":    cfg.Server.Port,
		"storage": cfg.Storage.Driver,
	})

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down canteen service", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}
