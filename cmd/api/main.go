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

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	"spendchat/internal/ai"
	"spendchat/internal/config"
	"spendchat/internal/database"
	_ "spendchat/internal/docs" // Import swagger docs
	"spendchat/internal/events"
	"spendchat/internal/handlers"
	"spendchat/internal/logger"
	"spendchat/internal/middleware"
	"spendchat/internal/otp"
	"spendchat/internal/services"
	"spendchat/internal/validator"
	"spendchat/internal/vonage"
)

// @title           Spendchat API
// @version         1.0
// @description     Spendchat logs expenses sent over WhatsApp and serves reports to the web dashboard.

// @host      localhost:3002
// @BasePath  /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Dashboard API key.

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	// Database
	dbConfig := database.NewConfig(appConfig)
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Redis holds pending OTP challenges
	rdb, err := database.NewRedis(ctx, appConfig)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// External providers
	vonageClient := vonage.NewClient(vonage.Config{
		APIKey:         appConfig.VonageAPIKey,
		APISecret:      appConfig.VonageAPISecret,
		Brand:          appConfig.VonageBrand,
		WhatsAppNumber: appConfig.VonageWhatsAppNumber,
		VerifyURL:      appConfig.VonageVerifyURL,
		MessagesURL:    appConfig.VonageMessagesURL,
	}, &http.Client{Timeout: 15 * time.Second})

	gemini, err := ai.NewGemini(ctx, appConfig.GeminiAPIKey, appConfig.GeminiModel, appConfig.AIRequestTimeout)
	if err != nil {
		return fmt.Errorf("failed to create language model client: %w", err)
	}
	classifier := ai.NewClassifier(gemini)
	analyst := ai.NewAnalyst(gemini)

	publisher, err := newPublisher(appConfig)
	if err != nil {
		return err
	}
	defer publisher.Close()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	expenseService := services.NewExpenseService(db)
	auditService := services.NewAuditService(db)
	reportService := services.NewReportService(userService, expenseService)
	otpService := services.NewOTPService(userService, vonageClient, otp.NewRedisStore(rdb, appConfig.OTPTTL), auditService)
	conversationService := services.NewConversationService(services.ConversationDeps{
		Users:      userService,
		Expenses:   expenseService,
		Reports:    reportService,
		Classifier: classifier,
		Analyst:    analyst,
		Audit:      auditService,
		Publisher:  publisher,
		JoinPhrase: appConfig.JoinPhrase,
	})

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(conversationService, vonageClient)
	otpHandler := handlers.NewOTPHandler(otpService)
	reportHandler := handlers.NewReportHandler(userService, reportService, expenseService)
	insightHandler := handlers.NewInsightHandler(analyst)

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(appConfig.AllowedOrigins()))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Messaging provider webhooks
	router.POST("/webhook/whatsapp", middleware.WebhookSignature(appConfig.VonageSignatureSecret), webhookHandler.WhatsApp)
	router.POST("/webhooks/status", webhookHandler.Status)

	// Dashboard
	router.POST("/webhook/ui", reportHandler.ExportCSV)
	router.POST("/getInsight", insightHandler.GetInsight)

	otpRoutes := router.Group("/otp")
	otpRoutes.Use(middleware.RateLimit(middleware.NewClientRateLimiter(appConfig.OTPRatePerMinute, appConfig.OTPRateBurst)))
	otpRoutes.POST("/send", otpHandler.SendOTP)
	otpRoutes.POST("/verify", otpHandler.VerifyOTP)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.DashboardAuth(appConfig.DashboardAPIKey))
	v1.GET("/users/:phone/expenses", reportHandler.ListExpenses)

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting spendchat server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newPublisher connects to the broker when AMQP_URL is set. Without it
// expense events are dropped.
func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		logger.Get().Info("AMQP_URL not set, expense events disabled")
		return events.NoopPublisher{}, nil
	}
	pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to message broker: %w", err)
	}
	return pub, nil
}
