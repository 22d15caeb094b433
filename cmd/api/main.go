package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hleeroa/Autoshop/config"
	cataloghandler "github.com/hleeroa/Autoshop/internal/catalog/handler"
	catalogrepo "github.com/hleeroa/Autoshop/internal/catalog/repository"
	catalogusecase "github.com/hleeroa/Autoshop/internal/catalog/usecase"
	"github.com/hleeroa/Autoshop/internal/httpapi/router"
	importhandler "github.com/hleeroa/Autoshop/internal/importer/handler"
	importrepo "github.com/hleeroa/Autoshop/internal/importer/repository"
	importusecase "github.com/hleeroa/Autoshop/internal/importer/usecase"
	orderhandler "github.com/hleeroa/Autoshop/internal/order/handler"
	orderrepo "github.com/hleeroa/Autoshop/internal/order/repository"
	orderusecase "github.com/hleeroa/Autoshop/internal/order/usecase"
	userhandler "github.com/hleeroa/Autoshop/internal/user/handler"
	userrepo "github.com/hleeroa/Autoshop/internal/user/repository"
	userusecase "github.com/hleeroa/Autoshop/internal/user/usecase"
	"github.com/hleeroa/Autoshop/pkg/broker"
	"github.com/hleeroa/Autoshop/pkg/cache"
	"github.com/hleeroa/Autoshop/pkg/logger"
	"github.com/hleeroa/Autoshop/pkg/postgres"
	"github.com/hleeroa/Autoshop/pkg/search"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg := config.LoadEnv()

	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Search is optional: listing queries fall back to postgres when
	// the cluster is unreachable.
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Elasticsearch unavailable, search falls back to postgres", zap.Error(err))
		esClient = nil
	}

	importProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.ImportTopic,
	})
	defer importProducer.Close()

	notifyProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.NotifyTopic,
	})
	defer notifyProducer.Close()

	userRepository := userrepo.NewUserRepository(db)
	catalogRepository := catalogrepo.NewPGRepository(db)
	orderRepository := orderrepo.NewPGRepository(db)
	importRepository := importrepo.NewPGRepository(db)
	jobStore := importrepo.NewRedisJobStore(redisClient)

	userUC := userusecase.NewUserUseCase(userRepository, notifyProducer, appLogger)
	catalogUC := catalogusecase.NewCatalogUseCase(catalogRepository, redisClient, esClient, appLogger)
	orderUC := orderusecase.NewOrderUseCase(orderRepository, redisClient, notifyProducer, appLogger)
	importUC := importusecase.NewImportUseCase(
		importRepository,
		jobStore,
		importProducer,
		redisClient,
		esClient,
		appLogger,
		time.Duration(cfg.Import.FetchTimeout)*time.Second,
	)

	engine := router.New(userRepository, &router.Handlers{
		Catalog: cataloghandler.NewCatalogHandler(catalogUC, appLogger),
		Order:   orderhandler.NewOrderHandler(orderUC, appLogger),
		User:    userhandler.NewUserHandler(userUC, appLogger),
		Import:  importhandler.NewPartnerImportHandler(importUC, appLogger),
	})

	srv := &http.Server{
		Addr:    cfg.Server.HTTPPort,
		Handler: engine,
	}

	go func() {
		appLogger.Info("HTTP server listening", zap.String("addr", cfg.Server.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
