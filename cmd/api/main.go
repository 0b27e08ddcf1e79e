// Package main is the entry point for the Savings Tracker API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/savings-tracker/backend/config"
	"github.com/savings-tracker/backend/internal/application/adapter"
	"github.com/savings-tracker/backend/internal/application/usecase/auth"
	"github.com/savings-tracker/backend/internal/application/usecase/goal"
	"github.com/savings-tracker/backend/internal/application/usecase/ledger"
	"github.com/savings-tracker/backend/internal/infra/db"
	"github.com/savings-tracker/backend/internal/infra/server/router"
	"github.com/savings-tracker/backend/internal/integration/adapters"
	"github.com/savings-tracker/backend/internal/integration/email"
	"github.com/savings-tracker/backend/internal/integration/email/templates"
	"github.com/savings-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/savings-tracker/backend/internal/integration/entrypoint/middleware"
	"github.com/savings-tracker/backend/internal/integration/persistence"
	"github.com/savings-tracker/backend/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	slog.Info("Starting Savings Tracker API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	var database *db.Database
	var dbHealthChecker func() bool

	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Warn("Database connection failed, running without database",
			"error", err,
		)
		database = nil
		dbHealthChecker = func() bool { return false }
	} else {
		// Run database migrations
		if err := database.AutoMigrate(
			&model.UserModel{},
			&model.RefreshTokenModel{},
			&model.GoalModel{},
			&model.GoalEventModel{},
			&model.MonthlyAggregateModel{},
			&model.EmailQueueModel{},
		); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database migrations completed successfully")

		dbHealthChecker = database.HealthCheck
		defer func() {
			if err := database.Close(); err != nil {
				slog.Error("Failed to close database connection", "error", err)
			}
		}()
	}

	// Initialize Redis client for login rate limiting
	redisClient := newRedisClient(&cfg.Redis)
	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("Failed to close redis connection", "error", err)
		}
	}()

	// Create health controller with database health checker
	healthController := controller.NewHealthController(dbHealthChecker)

	// Create controllers and middleware (only if database is available)
	var authController *controller.AuthController
	var goalController *controller.GoalController
	var goalEventController *controller.GoalEventController
	var loginRateLimiter *middleware.RateLimiter
	var authMiddleware *middleware.AuthMiddleware

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	if database != nil {
		// Create repositories
		userRepo := persistence.NewUserRepository(database.DB())
		tokenRepo := persistence.NewTokenRepository(database.DB())
		goalRepo := persistence.NewGoalRepository(database.DB())
		ledgerRepo := persistence.NewLedgerRepository(database.DB())
		emailQueueRepo := persistence.NewEmailQueueRepository(database.DB())

		// Create adapters/services
		passwordService := adapters.NewPasswordService()
		tokenService := adapters.NewTokenService(
			cfg.JWT.Secret,
			cfg.JWT.AccessTokenExpiry,
			cfg.JWT.RefreshTokenExpiry,
			tokenRepo,
		)

		var emailService adapter.EmailService
		if cfg.Email.WorkerEnabled {
			emailService = email.NewService(emailQueueRepo, cfg.Email.AppBaseURL)
			startEmailWorker(workerCtx, &cfg.Email, emailQueueRepo)
		}

		// Create auth use cases
		registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
		loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
		refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
		logoutUseCase := auth.NewLogoutUserUseCase(tokenService)

		// Create goal use cases
		listGoalsUseCase := goal.NewListGoalsUseCase(goalRepo)
		createGoalUseCase := goal.NewCreateGoalUseCase(goalRepo)
		getGoalUseCase := goal.NewGetGoalUseCase(goalRepo, ledgerRepo)
		updateGoalUseCase := goal.NewUpdateGoalUseCase(goalRepo)
		setPriorityUseCase := goal.NewSetPriorityUseCase(goalRepo)
		archiveGoalUseCase := goal.NewArchiveGoalUseCase(goalRepo)
		deleteGoalUseCase := goal.NewDeleteGoalUseCase(goalRepo)

		// Create ledger use cases
		createEventUseCase := ledger.NewCreateEventUseCase(ledgerRepo, goalRepo, userRepo, emailService)
		listEventsUseCase := ledger.NewListEventsUseCase(ledgerRepo)
		monthSummaryUseCase := ledger.NewGetMonthSummaryUseCase(ledgerRepo, goalRepo)
		rebuildUseCase := ledger.NewRebuildMonthTotalsUseCase(ledgerRepo, goalRepo)

		// Create controllers
		authController = controller.NewAuthController(
			registerUseCase,
			loginUseCase,
			refreshTokenUseCase,
			logoutUseCase,
		)
		goalController = controller.NewGoalController(
			listGoalsUseCase,
			createGoalUseCase,
			getGoalUseCase,
			updateGoalUseCase,
			setPriorityUseCase,
			archiveGoalUseCase,
			deleteGoalUseCase,
			monthSummaryUseCase,
			rebuildUseCase,
		)
		goalEventController = controller.NewGoalEventController(createEventUseCase, listEventsUseCase)

		// Create middleware
		loginRateLimiter = middleware.NewRateLimiter(redisClient, "login")
		authMiddleware = middleware.NewAuthMiddleware(tokenService)

		slog.Info("Goal ledger system initialized successfully")
	} else {
		slog.Warn("Goal ledger system not initialized due to missing database connection")
	}

	// Setup router
	r := router.NewRouter(
		healthController,
		authController,
		goalController,
		goalEventController,
		loginRateLimiter,
		authMiddleware,
	)
	engine := r.Setup(cfg.Server.Environment)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}

// newRedisClient builds the Redis client used by the login rate limiter.
// The limiter fails open, so a bad Redis config degrades rate limiting
// rather than taking the API down.
func newRedisClient(cfg *config.RedisConfig) *redis.Client {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		slog.Warn("Invalid REDIS_URL, falling back to localhost", "error", err)
		opts = &redis.Options{Addr: "localhost:6379"}
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	return redis.NewClient(opts)
}

// startEmailWorker launches the background email delivery loop.
func startEmailWorker(ctx context.Context, cfg *config.EmailConfig, queue adapter.EmailQueueRepository) {
	if cfg.ResendAPIKey == "" {
		slog.Warn("RESEND_API_KEY not set, email worker disabled")
		return
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		slog.Error("Failed to initialize email templates, email worker disabled", "error", err)
		return
	}

	sender := email.NewResendClient(cfg.ResendAPIKey, cfg.FromName, cfg.FromEmail)
	worker := email.NewWorker(queue, sender, renderer, email.WorkerConfig{
		PollInterval: cfg.PollInterval,
		BatchSize:    cfg.BatchSize,
	})

	go worker.Start(ctx)
}
