package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodiego/config"
	httpapi "foodiego/internal/api/http"
	"foodiego/internal/backend"
	"foodiego/internal/catalog"
	"foodiego/internal/gateway"
	"foodiego/internal/logging"
	"foodiego/internal/service"
	"foodiego/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat := catalog.Generate(cfg.Catalog.Restaurants, cfg.Catalog.ItemsPerRestaurant)
	logger.Info("catalog generated",
		zap.Int("restaurants", len(cat.Restaurants())),
		zap.Int("menu_items", len(cat.MenuItems())))

	store, closeStore := newStore(ctx, cfg, logger)
	defer closeStore()

	opts := []service.Option{
		service.WithQRGenerator(service.DefaultQRGenerator{BaseURL: cfg.QR.BaseURL}),
	}
	if cfg.Kafka.Broker != "" {
		writer := config.NewKafkaWriter(cfg.Kafka)
		defer writer.Close()
		opts = append(opts, service.WithPublisher(storage.NewKafkaPublisher(writer)))
		logger.Info("publishing order events", zap.String("topic", cfg.Kafka.OrdersTopic))
	}

	orders := service.NewOrderService(store, cat, logger, opts...)
	handler := httpapi.NewHandler(newBackend(cfg, cat, logger), orders, logger)
	server := httpapi.NewServer(cfg.HTTP.Addr, httpapi.NewRouter(handler))

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Storefront starting",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("data_mode", cfg.Data.Mode),
			zap.String("store", cfg.Store.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down server", zap.Error(err))
	}
	logger.Info("Storefront stopped")
}

func newBackend(cfg *config.Config, cat *catalog.Catalog, logger *zap.Logger) backend.Backend {
	if cfg.Data.Mode == config.DataModeRemote {
		client := &http.Client{Timeout: cfg.Remote.Timeout}
		return gateway.NewRemoteBackend(gateway.Config{BaseURL: cfg.Remote.BaseURL}, client, logger)
	}
	delays := backend.Delays{}
	if cfg.Mock.DelayEnabled {
		delays = backend.DefaultDelays()
	}
	return backend.NewCatalogBackend(cat, delays)
}

func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.KeyValueStore, func()) {
	switch cfg.Store.Driver {
	case config.StoreRedis:
		client := config.MustInitRedis(cfg.Redis, logger)
		return storage.NewRedisStore(client, cfg.Redis.TTL), func() { client.Close() }
	case config.StorePostgres:
		db := config.MustInitPostgres(cfg.DB, logger)
		pg := storage.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Fatal("Failed to ensure schema", zap.Error(err))
		}
		return pg, func() { db.Close() }
	default:
		return storage.NewMemoryStore(), func() {}
	}
}
