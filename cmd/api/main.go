package main

import (
	"context"
	"log"
	"strings"
	"time"

	"pedidos-service/internal/core/cache"
	"pedidos-service/internal/core/config"
	"pedidos-service/internal/core/database"
	"pedidos-service/internal/core/events"
	"pedidos-service/internal/core/logger"
	"pedidos-service/internal/core/server"
	orderadapter "pedidos-service/internal/features/orders/adapters"
	orderhandler "pedidos-service/internal/features/orders/handler"
	orderservice "pedidos-service/internal/features/orders/service"
	pricingadapter "pedidos-service/internal/features/pricing/adapters"
	pricinghandler "pedidos-service/internal/features/pricing/handler"
	pricingservice "pedidos-service/internal/features/pricing/service"
	schedulingadapter "pedidos-service/internal/features/scheduling/adapters"
	schedulinghandler "pedidos-service/internal/features/scheduling/handler"
	schedulingservice "pedidos-service/internal/features/scheduling/service"
	shippingadapter "pedidos-service/internal/features/shipping/adapters"
	shippinghandler "pedidos-service/internal/features/shipping/handler"
	shippingservice "pedidos-service/internal/features/shipping/service"

	"go.uber.org/zap"
)

// @title Pedidos Service API
// @version 1.0
// @description Order, delivery scheduling, discount and shipping API for a made-to-order garment store.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	loc, err := time.LoadLocation(cfg.StoreTimezone)
	if err != nil {
		l.Fatal("Invalid store timezone", zap.String("timezone", cfg.StoreTimezone), zap.Error(err))
	}

	ctx := context.Background()

	// Redis backs the daily capacity counters.
	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Failed to create Redis adapter", zap.Error(err))
	}
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		l.Fatal("Redis health check failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	db, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		l.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()
	l.Info("PostgreSQL connection verified")

	// Outbound notification events.
	producerCtx, stopProducer := context.WithCancel(context.Background())
	producer := events.NewProducer(strings.Split(cfg.Kafka.Brokers, ","), cfg.Kafka.Topic, 256)
	producer.Start(producerCtx)
	defer func() {
		stopProducer()
		producer.WaitClosed()
	}()

	// Scheduling: daily capacity tiers and delivery dates.
	capacityStore := schedulingadapter.NewRedisCapacityStore(redisCache)
	slotService := schedulingservice.NewSlotService(capacityStore, loc)
	slotHandler := schedulinghandler.NewSlotHandler(slotService)

	// Pricing: catalog lookups and the discount engine.
	pricingRepo := pricingadapter.NewPostgresPricingRepository(db)
	pricingSvc := pricingservice.NewPricingService(pricingRepo, pricingRepo)
	pricingHdl := pricinghandler.NewPricingHandler(pricingSvc)

	// Shipping: city rates and the per-kg configuration.
	shippingRepo := shippingadapter.NewPostgresShippingRepository(db)
	shippingSvc := shippingservice.NewShippingService(shippingRepo, shippingRepo)
	shippingHdl := shippinghandler.NewShippingHandler(shippingSvc)

	// Orders: the pipeline composing everything above.
	orderRepo := orderadapter.NewPostgresOrderRepository(db)
	customerRepo := orderadapter.NewPostgresCustomerRepository(db)
	sizeRepo := orderadapter.NewPostgresSizeRepository(db)
	notifier := orderadapter.NewKafkaNotifier(producer)
	orderSvc := orderservice.NewOrderService(
		orderRepo, customerRepo, sizeRepo,
		pricingRepo, pricingSvc, shippingSvc, slotService, notifier,
	)
	orderHdl := orderhandler.NewOrderHandler(orderSvc)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Get("/orders", orderHdl.ListOrders)
	srv.App.Get("/orders/customer/:id", orderHdl.ListCustomerOrders)
	srv.App.Get("/orders/delivery-dates", orderHdl.ListDeliveryDates)
	srv.App.Post("/orders", orderHdl.CreateOrder)
	srv.App.Patch("/orders/:id", orderHdl.UpdateOrder)
	srv.App.Delete("/orders/:id", orderHdl.DeleteOrder)
	srv.App.Post("/delivery-date", slotHandler.PreviewSlot)
	srv.App.Post("/pricing/discounts", pricingHdl.PriceBasket)
	srv.App.Post("/shipping/cost", shippingHdl.Quote)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
