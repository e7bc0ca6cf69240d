package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	config "storefront-checkout/configs"
	database "storefront-checkout/internal/pkg/db"
	"storefront-checkout/internal/pkg/jwt"
	"storefront-checkout/internal/pkg/logger"
	midtransPkg "storefront-checkout/internal/pkg/midtrans"
	"storefront-checkout/internal/pkg/rabbitmq"
	"storefront-checkout/internal/pkg/redis"
	s3aws "storefront-checkout/internal/pkg/storage/s3"
	"storefront-checkout/internal/pkg/validation"
	serverApp "storefront-checkout/internal/server"

	"github.com/gin-gonic/gin"
)

// @title           Storefront Checkout API
// @version         1.0
// @description     Products, cart and the multi-step checkout of the storefront

// @BasePath        /api
func main() {
	logger.Setup()

	env, err := config.GetEnv()
	if err != nil {
		logger.Error.Println("Error getting environment", err)
		panic(err)
	}
	logger.SetupWithConfig(&logger.Config{Level: env.LogLevel, Format: env.LogFormat})
	defer func() { _ = logger.Sync() }()
	jwt.SetSecret(env.JWTSecret)

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	// Setup Redis
	redisClient, err := setupRedis(ctx, env)
	if err != nil {
		logger.Error.Println("Error setting up Redis", err)
		cancel()
		return
	}

	// Setup RabbitMQ
	rabbit, err := setupRabbitMQ(ctx, env)
	if err != nil {
		logger.Error.Println("Error setting up RabbitMQ", err)
		cancel()
		return
	}

	// Setup Database
	db, err := setupDB(env, redisClient)
	if err != nil {
		logger.Error.Println("Error setting up Database", err)
		cancel()
		return
	}

	// Setup receipt storage (optional)
	var storage s3aws.Is3
	if env.ReceiptBucket != "" {
		s3Client, err := setupS3(env, redisClient)
		if err != nil {
			logger.Warning.Println("Receipt archive disabled:", err)
		} else {
			storage = s3Client
		}
	}

	setupServer(&config.SetupServerDto{
		Rds:    redisClient,
		Env:    env,
		Ctx:    &ctx,
		Cancel: cancel,
		Db:     db,
		Wg:     &wg,
		Rb:     rabbit,
		S3:     storage,
		Mt:     setupMidtrans(env),
	})
}

func setupRedis(ctx context.Context, env *config.Config) (*redis.Client, error) {
	return redis.Setup(ctx, &redis.Config{
		Host:     env.RedisHost,
		Username: env.RedisUser,
		Port:     env.RedisPort,
		Password: env.RedisPass,
		PoolSize: env.RedisPoolSize,
	})
}

func setupRabbitMQ(ctx context.Context, env *config.Config) (*rabbitmq.ConnectionManager, error) {
	return rabbitmq.NewConnectionManager(ctx, &rabbitmq.Config{
		Username: env.RabbitUser,
		Password: env.RabbitPass,
		Host:     env.RabbitHost,
		Port:     env.RabbitPort,
	})
}

func setupDB(env *config.Config, rds *redis.Client) (*database.Database, error) {
	cfg := &database.Config{
		Host:      env.DBHost,
		Port:      env.DBPort,
		User:      env.DBUser,
		Password:  env.DBPass,
		Database:  env.DBName,
		SSLMode:   env.DBSSLMode,
		Driver:    database.DriverEnum(env.DBDriver),
		Cache:     env.DBCache,
		CacheTime: env.DBCacheTime,
	}
	if env.DBCache {
		cfg.Rds = rds
	}
	return database.Setup(cfg)
}

func setupS3(env *config.Config, rds *redis.Client) (*s3aws.S3Client, error) {
	return s3aws.NewS3Client(s3aws.S3Config{
		AWSRegion:          env.AWSRegion,
		AWSAccessKeyID:     env.AWSAccessKeyID,
		AWSSecretAccessKey: env.AWSSecretAccessKey,
		Endpoint:           env.AWSEndpoint,
	}, env.ReceiptBucket, rds)
}

func setupMidtrans(env *config.Config) *midtransPkg.MidtransClient {
	return midtransPkg.Setup(&midtransPkg.Config{
		ServerKey:   env.MidtransServerKey,
		ClientKey:   env.MidtransClientKey,
		Environment: env.MidtransEnvironment,
	})
}

func setupServer(payload *config.SetupServerDto) {
	rds := payload.Rds
	env := payload.Env
	ctx := payload.Ctx
	cancel := payload.Cancel
	wg := payload.Wg
	rb := payload.Rb
	db := payload.Db

	defer func() {
		cancel()
		wg.Wait()
		_ = rb.Close()
		_ = db.Close()
		if rds != nil {
			_ = rds.Close()
		}
	}()

	err := validation.Setup()
	if err != nil {
		logger.Error.Println("Failed to setup validation")
		panic(err)
	}

	if env.AppEnv.IsLive() {
		gin.SetMode(gin.ReleaseMode)
	}
	e := gin.New()
	e.Use(gin.Recovery())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", env.AppPort),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	publisher, err := rabbitmq.NewPublisher(*ctx, rb)
	if err != nil {
		panic(err)
	}
	defer func() { _ = publisher.Close() }()

	services := serverApp.Setup(e, *ctx, wg, db, rds, rb, publisher, payload.S3, payload.Mt, serverApp.Options{
		Currency:        env.Currency,
		Locale:          env.Locale,
		CartTTL:         env.CartTTL,
		TokenTTL:        env.TokenTTL,
		SessionIdleTTL:  env.SessionIdleTTL,
		FinalizeTimeout: env.FinalizeTimeout,
		ThreeDS:         env.Midtrans3DS,
	})

	stopWorkers, err := serverApp.InitWorker(*ctx, rb, services.Payment, services.Receipt)
	if err != nil {
		panic(err)
	}
	defer stopWorkers()

	go func() {
		logger.HTTP.Println("========= Server Started =========")
		logger.HTTP.Println("=========", env.AppPort, "=========")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error.Println("Server error:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
	logger.HTTP.Println("========= Server Shutting Down =========")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
