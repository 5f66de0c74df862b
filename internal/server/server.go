package server

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cyphera/wallet-rpc/internal/approvals"
	"github.com/cyphera/wallet-rpc/internal/carousel"
	"github.com/cyphera/wallet-rpc/internal/config"
	"github.com/cyphera/wallet-rpc/internal/connect"
	"github.com/cyphera/wallet-rpc/internal/db"
	"github.com/cyphera/wallet-rpc/internal/handlers"
	"github.com/cyphera/wallet-rpc/internal/httpclient"
	"github.com/cyphera/wallet-rpc/internal/locks"
	"github.com/cyphera/wallet-rpc/internal/logger"
	"github.com/cyphera/wallet-rpc/internal/metrics"
	"github.com/cyphera/wallet-rpc/internal/middleware"
	"github.com/cyphera/wallet-rpc/internal/permissions"
	"github.com/cyphera/wallet-rpc/internal/referrals"
	"github.com/cyphera/wallet-rpc/internal/rpc"
	"github.com/cyphera/wallet-rpc/internal/secrets"
	"github.com/cyphera/wallet-rpc/internal/securityalerts"
	"github.com/cyphera/wallet-rpc/internal/wallet"
)

// Handler Definitions
var (
	rpcHandler           *handlers.RPCHandler
	healthHandler        *handlers.HealthHandler
	approvalHandler      *handlers.ApprovalHandler
	walletHandler        *handlers.WalletHandler
	referralHandler      *handlers.ReferralHandler
	securityAlertHandler *handlers.SecurityAlertHandler
	carouselHandler      *handlers.CarouselHandler

	// Background workers and connections
	cfg         *config.Config
	connPool    *pgxpool.Pool
	redisClient *redis.Client
	natsConn    *nats.Conn
	tracker     *metrics.Tracker
	rateLimiter *middleware.RateLimiter
	stopWorkers context.CancelFunc
)

// InitializeHandlers builds every component from c. Storage is Postgres when
// a database URL is configured and in-memory otherwise.
func InitializeHandlers(c *config.Config) {
	cfg = c
	ctx, cancel := context.WithCancel(context.Background())
	stopWorkers = cancel

	var (
		accountStore   wallet.AccountStore
		permissionRepo permissions.Repository
		referralStore  referrals.Store
	)
	if cfg.DatabaseURL != "" {
		var err error
		connPool, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Unable to create connection pool", zap.Error(err))
		}
		if err := db.Migrate(ctx, connPool); err != nil {
			logger.Fatal("Unable to apply database schema", zap.Error(err))
		}
		accountStore = wallet.NewPostgresAccountStore(connPool)
		permissionRepo = permissions.NewPostgresRepository(connPool)
		referralStore = referrals.NewPostgresStore(connPool)
	} else {
		logger.Warn("DATABASE_URL not set, keeping wallet state in memory")
		accountStore = wallet.NewMemoryAccountStore(cfg.Connect.Accounts...)
		permissionRepo = permissions.NewMemoryRepository()
		referralStore = referrals.NewMemoryStore()
	}

	var originLocks locks.Locker = locks.NewOriginLocks()
	if cfg.RedisURL != "" {
		var err error
		redisClient, err = locks.Connect(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Unable to create redis client", zap.Error(err))
		}
		originLocks = locks.NewRedisLocker(redisClient,
			locks.WithKeyPrefix(cfg.LockPrefix),
			locks.WithTTL(cfg.LockTTL))
	}

	metaMetricsID := ""
	if cfg.Metrics.ParticipateInMetaMetrics {
		metaMetricsID = cfg.Metrics.MetaMetricsID
	}
	tracker = metrics.NewTracker(newPublisher(ctx), metaMetricsID, cfg.Metrics.Workers, cfg.Metrics.BufferSize)
	tracker.Start()

	approvalManager := approvals.NewManager()
	controller := permissions.NewController(permissionRepo, accountStore, approvalManager)

	gate := wallet.NewGate()
	if cfg.UnlockOnBoot {
		gate.Unlock()
	}
	walletService := wallet.NewService(accountStore, controller, wallet.Preferences{
		MetaMetricsID:            cfg.Metrics.MetaMetricsID,
		ParticipateInMetaMetrics: cfg.Metrics.ParticipateInMetaMetrics,
	})
	ledger := referrals.NewLedger(referralStore)

	connectHandler, err := connect.NewHandler(connect.Dependencies{
		Accounts:    controller,
		Unlock:      gate,
		Permissions: controller,
		State:       walletService,
		Metrics:     tracker,
		Consent:     approvalManager,
		Referrals:   ledger,
		Locks:       originLocks,
	}, connect.Options{
		PartnerOrigin:      cfg.Connect.PartnerOrigin,
		ConsentType:        cfg.Connect.ConsentType,
		FailOnMetricsError: cfg.Connect.FailOnMetricsError,
	})
	if err != nil {
		logger.Fatal("Unable to create connect handler", zap.Error(err))
	}

	engine := rpc.NewEngine()
	rpc.RegisterWalletMethods(engine, connectHandler, controller, gate)

	securityClient, err := securityalerts.NewClient(securityalerts.Config{
		Enabled:   cfg.SecurityAlerts.Enabled,
		URL:       cfg.SecurityAlerts.URL,
		ShieldURL: cfg.SecurityAlerts.ShieldURL,
	}, httpclient.WithLogger(logger.Log))
	if err != nil {
		logger.Fatal("Unable to create security alerts client", zap.Error(err))
	}

	rpcHandler = handlers.NewRPCHandler(engine)
	healthHandler = handlers.NewHealthHandler(engine.Methods)
	approvalHandler = handlers.NewApprovalHandler(approvalManager)
	walletHandler = handlers.NewWalletHandler(gate, accountStore)
	referralHandler = handlers.NewReferralHandler(ledger)
	securityAlertHandler = handlers.NewSecurityAlertHandler(securityClient, newShieldParams(ctx))
	carouselHandler = handlers.NewCarouselHandler(newCarouselService(), cfg.Carousel.RemoteSlidesEnabled)

	rateLimiter = middleware.NewRateLimiter(ctx, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
}

// newPublisher picks the metrics backend: SQS, then NATS, then the log.
func newPublisher(ctx context.Context) metrics.Publisher {
	switch {
	case cfg.Metrics.SQSQueueURL != "":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			logger.Fatal("Unable to load AWS config", zap.Error(err))
		}
		logger.Info("Publishing metrics to SQS", zap.String("queue_url", cfg.Metrics.SQSQueueURL))
		return metrics.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.Metrics.SQSQueueURL)
	case cfg.Metrics.NATSURL != "":
		var err error
		natsConn, err = metrics.ConnectNATS(cfg.Metrics.NATSURL)
		if err != nil {
			logger.Fatal("Unable to connect to NATS", zap.Error(err))
		}
		logger.Info("Publishing metrics to NATS", zap.String("subject", cfg.Metrics.NATSSubject))
		return metrics.NewNATSPublisher(natsConn, cfg.Metrics.NATSSubject)
	default:
		return metrics.NewLogPublisher(logger.Log)
	}
}

// newShieldParams returns nil unless a shield host and signing secret are
// configured. The secret is read from Secrets Manager when an ARN is set.
func newShieldParams(ctx context.Context) *securityalerts.ShieldParams {
	sa := cfg.SecurityAlerts
	if sa.ShieldURL == "" || (sa.ShieldSecretARN == "" && sa.ShieldSecret == "") {
		return nil
	}

	var manager *secrets.Manager
	if sa.ShieldSecretARN != "" {
		var err error
		manager, err = secrets.NewManagerFromEnv(ctx)
		if err != nil {
			logger.Warn("Secrets Manager unavailable, using the configured shield secret", zap.Error(err))
		}
	}

	return &securityalerts.ShieldParams{
		Status: securityalerts.ShieldEnabled(true),
		Tokens: securityalerts.NewJWTProvider(
			securityalerts.SecretFunc(manager.Source(sa.ShieldSecretARN, sa.ShieldSecret)),
			sa.ShieldIssuer,
			sa.ShieldSubject,
		),
	}
}

func newCarouselService() *carousel.Service {
	var (
		lineage carousel.LineageService = carousel.StaticLineage{}
		source  carousel.SlideSource
	)
	if cfg.Carousel.LineageURL != "" {
		lineage = carousel.NewLineageClient(httpclient.New(httpclient.WithLogger(logger.Log)), cfg.Carousel.LineageURL, nil)
	}
	if cfg.Carousel.RemoteSlidesEnabled && cfg.Carousel.FeedURL != "" {
		source = carousel.NewFeedSource(httpclient.New(
			httpclient.WithLogger(logger.Log),
			httpclient.WithRetryConfig(httpclient.DefaultRetryConfig()),
		), cfg.Carousel.FeedURL)
	}
	return carousel.NewService(carousel.NewComposer(lineage, source))
}

func InitializeRoutes(router *gin.Engine) {
	router.Use(middleware.CorrelationIDMiddleware())
	router.Use(configureCORS())
	router.Use(rateLimiter.Middleware())

	// if we are not in production, log every request
	if !cfg.IsProduction() {
		router.Use(middleware.RequestLoggingMiddleware())
	}

	router.GET("/health", healthHandler.Health)

	// Dapp-facing JSON-RPC endpoint
	router.POST("/rpc", rpcHandler.Handle)

	v1 := router.Group("/api/v1")
	{
		approvalsGroup := v1.Group("/approvals")
		{
			approvalsGroup.GET("", approvalHandler.ListApprovals)
			approvalsGroup.GET("/:id", approvalHandler.GetApproval)
			approvalsGroup.POST("/:id/approve", approvalHandler.Approve)
			approvalsGroup.POST("/:id/reject", approvalHandler.Reject)
		}

		walletGroup := v1.Group("/wallet")
		{
			walletGroup.GET("", walletHandler.Status)
			walletGroup.POST("/unlock", walletHandler.Unlock)
			walletGroup.POST("/lock", walletHandler.Lock)
			walletGroup.GET("/accounts", walletHandler.ListAccounts)
			walletGroup.POST("/accounts", walletHandler.AddAccount)
			walletGroup.POST("/accounts/:address/select", walletHandler.SelectAccount)
		}

		referralsGroup := v1.Group("/referrals")
		{
			referralsGroup.GET("", referralHandler.ListReferrals)
			referralsGroup.POST("/approve-all", referralHandler.ApproveAll)
			referralsGroup.GET("/:address", referralHandler.GetReferral)
			referralsGroup.POST("/:address/passed", referralHandler.MarkPassed)
		}

		v1.POST("/security-alerts/validate/:chain_id", securityAlertHandler.Validate)

		carouselGroup := v1.Group("/carousel")
		{
			carouselGroup.GET("", carouselHandler.GetSlides)
			carouselGroup.POST("/refresh", carouselHandler.RefreshSlides)
			carouselGroup.POST("/:id/dismiss", carouselHandler.DismissSlide)
		}
	}
}

// Shutdown drains the metrics workers and closes open connections.
func Shutdown(ctx context.Context) {
	if stopWorkers != nil {
		stopWorkers()
	}
	if tracker != nil {
		tracker.Stop()
	}
	if natsConn != nil {
		if err := natsConn.Drain(); err != nil {
			logger.Warn("Failed to drain NATS connection", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if connPool != nil {
		closed := make(chan struct{})
		go func() {
			connPool.Close()
			close(closed)
		}()
		select {
		case <-closed:
		case <-ctx.Done():
			logger.Warn("Timed out closing connection pool")
		}
	}
}

// configureCORS returns a configured CORS middleware
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.AllowMethods = cfg.CORS.AllowedMethods
	corsConfig.AllowHeaders = cfg.CORS.AllowedHeaders
	corsConfig.ExposeHeaders = cfg.CORS.ExposedHeaders
	corsConfig.AllowCredentials = cfg.CORS.AllowCredentials
	return cors.New(corsConfig)
}
