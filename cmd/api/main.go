package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gurram-saikumar/thinkcyber-server/internal/auth"
	"github.com/gurram-saikumar/thinkcyber-server/internal/cache"
	"github.com/gurram-saikumar/thinkcyber-server/internal/config"
	"github.com/gurram-saikumar/thinkcyber-server/internal/email"
	"github.com/gurram-saikumar/thinkcyber-server/internal/handlers"
	"github.com/gurram-saikumar/thinkcyber-server/internal/logger"
	"github.com/gurram-saikumar/thinkcyber-server/internal/middlewares"
	"github.com/gurram-saikumar/thinkcyber-server/internal/repositories"
	"github.com/gurram-saikumar/thinkcyber-server/internal/services"
	"github.com/gurram-saikumar/thinkcyber-server/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const maxRequestSize = 512 * 1024 * 1024 // generous cap, video uploads go up to 500MB

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting ThinkCyber Server")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis. The server still works without it, just uncached
	// and without the OTP throttle.
	var appCache *cache.Cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Logger.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	} else {
		appCache = cache.New(redisClient)
	}
	cancelPing()

	// Initialize JWT token generator
	tokenGenerator := auth.NewTokenGenerator(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Initialize storage and email
	fileStorage := storage.NewLocalStorage(cfg.Uploads.BasePath)
	emailSender := email.NewSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	// Initialize repositories
	categoryRepo := repositories.NewCategoryRepository(db)
	subcategoryRepo := repositories.NewSubcategoryRepository(db)
	topicRepo := repositories.NewTopicRepository(db)
	moduleRepo := repositories.NewTopicModuleRepository(db)
	videoRepo := repositories.NewTopicVideoRepository(db)
	homepageRepo := repositories.NewHomepageRepository(db)
	legalRepo := repositories.NewLegalRepository(db)
	uploadRepo := repositories.NewUploadRepository(db)
	userRepo := repositories.NewUserRepository(db)
	userTokenRepo := repositories.NewUserTokenRepository(db)
	otpRepo := repositories.NewOtpRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	// Initialize services
	categoryService := services.NewCategoryService(categoryRepo)
	subcategoryService := services.NewSubcategoryService(subcategoryRepo, categoryRepo)
	topicService := services.NewTopicService(topicRepo, moduleRepo, videoRepo, categoryRepo, subcategoryRepo)
	moduleService := services.NewModuleService(moduleRepo, videoRepo, topicRepo)
	videoService := services.NewVideoService(videoRepo, moduleRepo)
	legalService := services.NewLegalService(legalRepo)
	uploadService := services.NewUploadService(uploadRepo, videoRepo, fileStorage, cfg.Server.BaseURL)
	enrollmentService := services.NewEnrollmentService(enrollmentRepo, reviewRepo, topicRepo)

	var homepageCache services.HomepageCache
	var otpThrottle services.OtpThrottle
	if appCache != nil {
		homepageCache = appCache
		otpThrottle = appCache
	}
	homepageService := services.NewHomepageService(homepageRepo, homepageCache, logger.Logger)
	authService := services.NewAuthService(
		userRepo, userTokenRepo, otpRepo,
		tokenGenerator, emailSender, otpThrottle,
		cfg.JWT.RefreshTokenExpiry, logger.Logger,
	)

	// Initialize middleware
	authMw := auth.Middleware(tokenGenerator)

	// Initialize handlers
	categoryHandler := handlers.NewCategoryHandler(categoryService, logger.Logger)
	subcategoryHandler := handlers.NewSubcategoryHandler(subcategoryService, logger.Logger)
	topicHandler := handlers.NewTopicHandler(topicService, logger.Logger)
	moduleHandler := handlers.NewModuleHandler(moduleService, logger.Logger)
	videoHandler := handlers.NewVideoHandler(videoService, logger.Logger)
	homepageHandler := handlers.NewHomepageHandler(homepageService, logger.Logger)
	legalHandler := handlers.NewLegalHandler(legalService, logger.Logger)
	uploadHandler := handlers.NewUploadHandler(uploadService, logger.Logger)
	authHandler := handlers.NewAuthHandler(authService, logger.Logger)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService, authMw, logger.Logger)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(middlewares.LoggerMiddleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middlewares.RequestSizeLimitMiddleware(maxRequestSize))

	// Scope router to /api
	r.Route("/api", func(r chi.Router) {
		categoryHandler.RegisterRoutes(r)
		subcategoryHandler.RegisterRoutes(r)
		topicHandler.RegisterRoutes(r)
		moduleHandler.RegisterRoutes(r)
		videoHandler.RegisterRoutes(r)
		homepageHandler.RegisterRoutes(r)
		legalHandler.RegisterRoutes(r)
		uploadHandler.RegisterRoutes(r)
		authHandler.RegisterRoutes(r)
		enrollmentHandler.RegisterRoutes(r)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  60 * time.Second, // Longer timeout for video uploads
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
