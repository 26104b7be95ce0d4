package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orders/cmd"
	httpin "orders/internal/adapters/in/http"
	"orders/internal/adapters/out/kafka"
	"orders/internal/adapters/out/natsjs"
	"orders/internal/adapters/out/postgres/jobrepo"
	"orders/internal/adapters/out/postgres/orderrepo"
	redisadapter "orders/internal/adapters/out/redis"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs(logger)

	gormDB, err := openDatabase(configs)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
	})
	cache := redisadapter.NewCache(redisClient)

	stream := kafka.NewEventStream(configs.KafkaBrokers)
	defer stream.Close()

	queue, err := natsjs.NewEventQueue(configs.NatsURL, logger)
	if err != nil {
		logger.Error("Failed to connect to event queue", "error", err)
		os.Exit(1)
	}
	defer queue.Close()

	app := cmd.NewCompositionRoot(configs, gormDB, cache, stream, queue, logger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		logger.Error("Failed to start job manager", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	server := httpin.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateUpdateOrderStatusCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetUserOrdersQueryHandler(),
		app.CreateGetOrderStatsQueryHandler(),
	)
	server.RegisterRoutes(e)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if startErr := e.Start("0.0.0.0:" + configs.HTTPPort); startErr != nil {
			logger.Info("HTTP server stopped", "error", startErr)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}

func getConfigs(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("No .env file found, reading configuration from the environment")
	}

	return cmd.Config{
		HTTPPort:               envOr("HTTP_PORT", "8080"),
		DBHost:                 os.Getenv("DB_HOST"),
		DBPort:                 envOr("DB_PORT", "5432"),
		DBUser:                 os.Getenv("DB_USER"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 os.Getenv("DB_NAME"),
		DBSslMode:              envOr("DB_SSLMODE", "disable"),
		RedisAddr:              envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers:           envOr("KAFKA_BROKERS", "localhost:9092"),
		KafkaOrdersTopic:       envOr("KAFKA_ORDERS_TOPIC", "orders.events"),
		NatsURL:                envOr("NATS_URL", "nats://localhost:4222"),
		NatsEventsQueue:        envOr("NATS_EVENTS_QUEUE", "orders.queue.events"),
		NatsNotificationsQueue: envOr("NATS_NOTIFICATIONS_QUEUE", "orders.queue.notifications"),
		WorkerPoolSize:         envOr("WORKER_POOL_SIZE", "4"),
		InventoryServiceURL:    os.Getenv("INVENTORY_SERVICE_URL"),
		PaymentServiceURL:      os.Getenv("PAYMENT_SERVICE_URL"),
		NotificationServiceURL: os.Getenv("NOTIFICATION_SERVICE_URL"),
		InvoiceServiceURL:      os.Getenv("INVOICE_SERVICE_URL"),
		ServiceTimeout:         envOr("SERVICE_TIMEOUT", "5s"),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		configs.DBHost, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBPort, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&jobrepo.JobDTO{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return gormDB, nil
}
