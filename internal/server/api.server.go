package serverApp

import (
	"context"
	"net/http"
	"sync"
	"time"

	database "storefront-checkout/internal/pkg/db"
	"storefront-checkout/internal/pkg/logger"
	"storefront-checkout/internal/pkg/metrics"
	"storefront-checkout/internal/pkg/middleware"
	midtransPkg "storefront-checkout/internal/pkg/midtrans"
	"storefront-checkout/internal/pkg/rabbitmq"
	"storefront-checkout/internal/pkg/redis"
	s3aws "storefront-checkout/internal/pkg/storage/s3"
	"storefront-checkout/internal/repository"

	accountHandler "storefront-checkout/internal/handler/account"
	cartHandler "storefront-checkout/internal/handler/cart"
	checkoutHandler "storefront-checkout/internal/handler/checkout"
	deliveryHandler "storefront-checkout/internal/handler/delivery"
	orderHandler "storefront-checkout/internal/handler/order"
	paymentHandler "storefront-checkout/internal/handler/payment"
	productHandler "storefront-checkout/internal/handler/product"
	receiptHandler "storefront-checkout/internal/handler/receipt"
	accountService "storefront-checkout/internal/service/account"
	cartService "storefront-checkout/internal/service/cart"
	checkoutService "storefront-checkout/internal/service/checkout"
	deliveryService "storefront-checkout/internal/service/delivery"
	orderService "storefront-checkout/internal/service/order"
	paymentService "storefront-checkout/internal/service/payment"
	productService "storefront-checkout/internal/service/product"
	receiptService "storefront-checkout/internal/service/receipt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Options are the tunables the services are built with.
type Options struct {
	Currency        string
	Locale          string
	CartTTL         time.Duration
	TokenTTL        time.Duration
	SessionIdleTTL  time.Duration
	FinalizeTimeout time.Duration
	ThreeDS         bool
}

// Services are shared between the HTTP routes and the background workers.
type Services struct {
	Payment  paymentService.IService
	Receipt  receiptService.IService
	Checkout checkoutService.IService
}

// Setup initializes the HTTP server with middleware and routes
func Setup(
	engine *gin.Engine,
	ctx context.Context,
	wg *sync.WaitGroup,
	db *database.Database,
	redisClient redis.IRedis,
	rb *rabbitmq.ConnectionManager,
	publisher rabbitmq.IPublisher,
	s3 s3aws.Is3,
	mt *midtransPkg.MidtransClient,
	opts Options,
) *Services {
	InitMiddleware(engine, metrics.NewServerMetrics(prometheus.DefaultRegisterer, "api"))

	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		rabbitmqHealth := "unhealthy"
		redisHealth := "unhealthy"
		databaseHealth := "unhealthy"

		if db != nil && !db.IsCloseConnection() {
			databaseHealth = "healthy"
		}
		if rb != nil && !rb.IsClosed() {
			rabbitmqHealth = "healthy"
		}
		if redisClient != nil && redisClient.Ping() == nil {
			redisHealth = "healthy"
		}
		c.JSON(http.StatusOK, gin.H{
			"status": http.StatusOK,
			"service": gin.H{
				"rabbitmq": gin.H{"status": rabbitmqHealth},
				"redis":    gin.H{"status": redisHealth},
				"database": gin.H{"status": databaseHealth},
			},
		})
	})

	e := engine.Group(BasePath())
	return InitRoutes(e, ctx, wg, db, redisClient, publisher, s3, mt, opts)
}

// BasePath returns the base API path
func BasePath() string {
	return "/api"
}

// InitMiddleware initializes global middleware
func InitMiddleware(e *gin.Engine, m *metrics.ServerMetrics) {
	e.Use(middleware.CorsMiddleware())
	e.Use(middleware.RequestInit())
	e.Use(middleware.ResponseInit(m))
}

func InitRoutes(
	e *gin.RouterGroup,
	ctx context.Context,
	wg *sync.WaitGroup,
	db *database.Database,
	redisClient redis.IRedis,
	publisher rabbitmq.IPublisher,
	s3 s3aws.Is3,
	mt *midtransPkg.MidtransClient,
	opts Options,
) *Services {
	auth := middleware.AuthMiddleware()

	// setup repo
	rp := repository.New(db)

	// === Catalog ===
	ProductService := productService.NewService(ctx, rp)
	productHandler.NewHandler(ctx, ProductService).NewRoutes(e)

	DeliveryService := deliveryService.NewService(ctx, rp)
	deliveryHandler.NewHandler(ctx, DeliveryService).NewRoutes(e)

	// === Cart ===
	CartService := cartService.NewService(ctx, redisClient, opts.CartTTL)
	cartHandler.NewHandler(ctx, CartService).NewRoutes(e, auth)

	// === Account ===
	AccountService := accountService.NewService(ctx, rp)
	accountHandler.NewHandler(ctx, AccountService).NewRoutes(e, auth)

	// === Orders ===
	OrderService := orderService.NewService(ctx, rp, CartService, publisher)
	orderHandler.NewHandler(ctx, OrderService).NewRoutes(e, auth)

	ReceiptService := receiptService.NewService(ctx, rp, s3)
	receiptHandler.NewHandler(ctx, ReceiptService).NewRoutes(e, auth)

	// === Payment ===
	PaymentService := paymentService.NewService(ctx, rp, CartService, mt, redisClient, publisher, paymentService.Options{
		Currency: opts.Currency,
		TokenTTL: opts.TokenTTL,
		ThreeDS:  opts.ThreeDS,
	})
	paymentHandler.NewHandler(ctx, PaymentService).NewRoutes(e, auth)

	// === Checkout ===
	CheckoutService := checkoutService.NewService(ctx, checkoutService.Collaborators{
		Carts:    CartService,
		Delivery: DeliveryService,
		Accounts: AccountService,
		Orders:   OrderService,
		Payments: PaymentService,
		Metrics:  metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer),
	}, checkoutService.Options{
		IdleTTL:         opts.SessionIdleTTL,
		FinalizeTimeout: opts.FinalizeTimeout,
		Currency:        opts.Currency,
		Locale:          opts.Locale,
	})
	checkoutHandler.NewHandler(ctx, CheckoutService).NewRoutes(e, auth)

	wg.Add(1)
	go func() {
		defer wg.Done()
		CheckoutService.Run(ctx)
		CheckoutService.Close()
		logger.Info.Println("Checkout sessions closed")
	}()

	return &Services{
		Payment:  PaymentService,
		Receipt:  ReceiptService,
		Checkout: CheckoutService,
	}
}
