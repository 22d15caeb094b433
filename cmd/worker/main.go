package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hleeroa/Autoshop/config"
	importlistener "github.com/hleeroa/Autoshop/internal/importer/listener"
	importrepo "github.com/hleeroa/Autoshop/internal/importer/repository"
	importusecase "github.com/hleeroa/Autoshop/internal/importer/usecase"
	notifylistener "github.com/hleeroa/Autoshop/internal/notify/listener"
	"github.com/hleeroa/Autoshop/pkg/broker"
	"github.com/hleeroa/Autoshop/pkg/cache"
	"github.com/hleeroa/Autoshop/pkg/logger"
	"github.com/hleeroa/Autoshop/pkg/mailer"
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

	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Elasticsearch unavailable, imports skip indexing", zap.Error(err))
		esClient = nil
	}

	importConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.ImportTopic,
		GroupID: cfg.Kafka.ImportGroupID,
	})
	defer importConsumer.Close()

	notifyConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.NotifyTopic,
		GroupID: cfg.Kafka.NotifyGroupID,
	})
	defer notifyConsumer.Close()

	importUC := importusecase.NewImportUseCase(
		importrepo.NewPGRepository(db),
		importrepo.NewRedisJobStore(redisClient),
		nil, // the worker only consumes tasks, it never dispatches
		redisClient,
		esClient,
		appLogger,
		time.Duration(cfg.Import.FetchTimeout)*time.Second,
	)

	smtp := mailer.NewMailer(&mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		importlistener.NewImportListener(importConsumer, importUC, appLogger).Start(ctx)
	}()
	go func() {
		defer wg.Done()
		notifylistener.NewNotifyListener(notifyConsumer, smtp, appLogger).Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down workers")
	cancel()
	wg.Wait()
	appLogger.Info("Workers stopped")
}
