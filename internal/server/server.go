package server

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/autobridge/autobridge-api/internal/client/oracle"
	"github.com/autobridge/autobridge-api/internal/client/payout"
	"github.com/autobridge/autobridge-api/internal/client/queue"
	"github.com/autobridge/autobridge-api/internal/client/swap"
	"github.com/autobridge/autobridge-api/internal/client/transport"
	"github.com/autobridge/autobridge-api/internal/config"
	"github.com/autobridge/autobridge-api/internal/handlers"
	"github.com/autobridge/autobridge-api/internal/logger"
	"github.com/autobridge/autobridge-api/internal/services"
	"github.com/autobridge/autobridge-api/internal/store"
)

// Handler definitions
var (
	healthHandler  *handlers.HealthHandler
	ledgerHandler  *handlers.LedgerHandler
	sessionHandler *handlers.SessionHandler
	bridgeHandler  *handlers.BridgeHandler
	orderHandler   *handlers.OrderHandler

	// Streaming price feed, started in InitializeHandlers when configured
	priceFeed *oracle.PriceFeed

	// Services shared with the monitor entrypoint
	Services *ServiceBundle
)

// ServiceBundle groups the initialized services for reuse outside the
// HTTP surface.
type ServiceBundle struct {
	Config   *config.Config
	Store    store.Querier
	Ledger   *services.LedgerService
	Sessions *services.SessionService
	Trigger  *services.TriggerService
	Bridge   *services.BridgeService
	Orders   *services.OrderService
	Events   *services.EventService
	Alerts   *services.AlertService
}

// InitializeHandlers loads configuration, connects storage and the
// collaborator clients, and builds the service graph.
func InitializeHandlers() {
	cfg, err := config.Load()
	if err != nil {
		logger.InitLogger("dev")
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.InitLogger(cfg.Stage)
	logger.Info("Initializing handlers", zap.String("stage", cfg.Stage))

	ctx := context.Background()

	// Storage: postgres when DATABASE_URL is configured, in-memory
	// otherwise (local development and tests).
	var queries store.Querier
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Unable to create connection pool", zap.Error(err))
		}
		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("Unable to ping database", zap.Error(err))
		}
		queries = store.NewPostgresStore(pool)
		logger.Info("Connected to postgres")
	} else {
		queries = store.NewMemoryStore()
		logger.Warn("DATABASE_URL not set, using in-memory store")
	}

	// Gas oracle feeding the trigger engine.
	var gasOracle oracle.Oracle
	if cfg.GasOracleURL != "" {
		gasOracle = oracle.NewGasStationClient(cfg.GasOracleURL, os.Getenv("GAS_ORACLE_API_KEY"))
	} else {
		logger.Warn("GAS_ORACLE_URL not set, using fixed oracle",
			zap.Float64("value", cfg.OracleFixedValue))
		gasOracle = oracle.NewFixedOracle(cfg.OracleFixedValue)
	}

	// Price oracle feeding the order book: streaming feed when a
	// websocket URL is configured, HTTP polling otherwise.
	var priceOracle oracle.Oracle
	symbol := getEnvDefault("PRICE_FEED_SYMBOL", "ETHUSDC")
	switch {
	case cfg.PriceFeedWSURL != "":
		priceFeed = oracle.NewPriceFeed(cfg.PriceFeedWSURL, symbol)
		priceFeed.Start()
		priceOracle = priceFeed
	case cfg.PriceOracleURL != "":
		priceOracle = oracle.NewPriceClient(cfg.PriceOracleURL, symbol)
	default:
		logger.Warn("No price oracle configured, using fixed oracle",
			zap.Float64("value", cfg.OracleFixedValue))
		priceOracle = oracle.NewFixedOracle(cfg.OracleFixedValue)
	}

	// Events: SQS fanout when a queue is configured.
	var publisher queue.Publisher
	if cfg.SQSQueueURL != "" {
		sqsPublisher, err := queue.NewSQSPublisher(ctx, cfg.SQSQueueURL)
		if err != nil {
			logger.Fatal("Failed to initialize SQS publisher", zap.Error(err))
		}
		publisher = sqsPublisher
	}

	bridgeTransport := transport.NewHTTPTransport(cfg.BridgeTransportURL)
	swapExecutor := swap.NewHTTPExecutor(cfg.SwapVenueURL)
	payoutSender := payout.NewHTTPSender(cfg.PayoutURL)

	events := services.NewEventService(queries, publisher)
	locks := services.NewAccountLocks()
	ledger := services.NewLedgerService(queries, payoutSender, events, locks)
	sessions := services.NewSessionService(queries, events)
	trigger := services.NewTriggerService(ledger, gasOracle, cfg.OracleMaxAge)
	bridge := services.NewBridgeService(queries, trigger, sessions, ledger,
		bridgeTransport, payoutSender, events, locks, services.BridgeConfig{
			Destination:    cfg.BridgeDestination,
			TransferAmount: cfg.BridgeTransferAmountWei,
			ActionTag:      cfg.BridgeActionTag,
		})
	orders := services.NewOrderService(queries, sessions, ledger, priceOracle, swapExecutor, events, locks, cfg.OracleMaxAge)
	alerts := services.NewAlertService(cfg.ResendAPIKey, cfg.AlertFromEmail, cfg.AlertToEmail)

	Services = &ServiceBundle{
		Config:   cfg,
		Store:    queries,
		Ledger:   ledger,
		Sessions: sessions,
		Trigger:  trigger,
		Bridge:   bridge,
		Orders:   orders,
		Events:   events,
		Alerts:   alerts,
	}

	healthHandler = handlers.NewHealthHandler()
	ledgerHandler = handlers.NewLedgerHandler(ledger, events, logger.Log)
	sessionHandler = handlers.NewSessionHandler(sessions, logger.Log)
	bridgeHandler = handlers.NewBridgeHandler(bridge, trigger, logger.Log)
	orderHandler = handlers.NewOrderHandler(orders, logger.Log)
}

// InitializeRoutes registers middleware and the API route groups.
func InitializeRoutes(router *gin.Engine) {
	router.Use(configureCORS())

	// Health for raw lambda url check
	router.GET("/:stage/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/health", healthHandler.Health)

	v1 := router.Group("/api/v1")
	{
		users := v1.Group("/users/:address")
		{
			users.PUT("/threshold", ledgerHandler.SetThreshold)
			users.GET("/threshold", ledgerHandler.GetThreshold)

			users.POST("/deposits", ledgerHandler.Deposit)
			users.GET("/deposits/:token", ledgerHandler.GetDeposit)
			users.POST("/withdrawals", ledgerHandler.Withdraw)

			users.GET("/events", ledgerHandler.ListEvents)

			sessions := users.Group("/sessions")
			{
				sessions.POST("", sessionHandler.Authorize)
				sessions.GET("/:session_key", sessionHandler.GetGrant)
				sessions.DELETE("/:session_key", sessionHandler.Revoke)
			}

			users.GET("/trigger", bridgeHandler.CheckTrigger)

			bridge := users.Group("/bridge")
			{
				bridge.POST("", bridgeHandler.Execute)
				bridge.GET("/attempts", bridgeHandler.ListAttempts)
			}

			orders := users.Group("/orders")
			{
				orders.POST("", orderHandler.Create)
				orders.GET("", orderHandler.List)
				orders.GET("/:order_id", orderHandler.Get)
				orders.DELETE("/:order_id", orderHandler.Cancel)
				orders.POST("/:order_id/execute", orderHandler.Execute)
			}
		}
	}
}

// Shutdown stops background collaborators. Safe to call when nothing
// was started.
func Shutdown() {
	if priceFeed != nil {
		priceFeed.Stop()
	}
}

func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		corsConfig.AllowOrigins = origins
	}

	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key"}
	corsConfig.AllowCredentials = os.Getenv("CORS_ALLOW_CREDENTIALS") == "true"

	return cors.New(corsConfig)
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
