package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sinedd777/resume-reviewer/internal/comment"
	"github.com/sinedd777/resume-reviewer/internal/config"
	"github.com/sinedd777/resume-reviewer/internal/db"
	"github.com/sinedd777/resume-reviewer/internal/logging"
	"github.com/sinedd777/resume-reviewer/internal/middleware"
	"github.com/sinedd777/resume-reviewer/internal/objectstore"
	"github.com/sinedd777/resume-reviewer/internal/pdf"
	"github.com/sinedd777/resume-reviewer/internal/resume"
	"github.com/sinedd777/resume-reviewer/internal/worker"
	"github.com/sinedd777/resume-reviewer/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	config.LoadConfig()

	logger, err := logging.New(config.AppConfig.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	if err := db.ConnectDb(logger); err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	defer db.CloseDb(logger)

	// Migrate database schema
	if err := db.Migrate(db.AppDb); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	// Initialize Redis
	redisClient := redis.InitRedis(context.Background(), config.AppConfig.RedisAddress, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	cache := redis.NewCache(redisClient, config.AppConfig.CacheTTL)

	store, closeStore, err := newObjectStore(context.Background(), logger)
	if err != nil {
		logger.Fatal("object store unavailable", zap.Error(err))
	}
	defer closeStore()

	pool := worker.NewWorkerPool(config.AppConfig.WorkerPoolSize, 100, logger.Named("worker"))

	// Initialize repository
	resumeRepo := resume.NewRepository(db.AppDb)
	commentRepo := comment.NewRepository(db.AppDb)
	// Initialize service
	resumeService := resume.NewService(resumeRepo, store, pdf.NewInspector(), pool, cache, logger.Named("resume"))
	commentService := comment.NewService(commentRepo, resumeService, cache)
	// Initialize handler
	resumeHandler := resume.NewHandler(resumeService, config.AppConfig.MaxUploadBytes)
	commentHandler := comment.NewHandler(commentService)

	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(middleware.ErrorHandler(logger))
	router.MaxMultipartMemory = config.AppConfig.MaxUploadBytes

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}

	if config.AppConfig.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		// Restrict origins in production
		corsConfig.AllowOrigins = []string{config.AppConfig.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	resumeHandler.RegisterRoutes(router)
	commentHandler.RegisterRoutes(router)

	if local, ok := store.(*objectstore.LocalStore); ok {
		router.Static("/files", local.Root())
	}

	// Server configuration
	serverPort := config.AppConfig.ServerPort
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		logger.Info("Server listening", zap.String("port", serverPort))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	// finish pending orphan cleanups before the store is closed
	pool.Shutdown()
	logger.Info("Server shutdown complete")
}

// newObjectStore picks the backend named by STORAGE_BACKEND.
func newObjectStore(ctx context.Context, logger *zap.Logger) (objectstore.Store, func(), error) {
	switch config.AppConfig.StorageBackend {
	case "gcs":
		if config.AppConfig.GCSBucket == "" {
			return nil, nil, fmt.Errorf("GCS_BUCKET is required when STORAGE_BACKEND=gcs")
		}
		store, err := objectstore.NewGCSStore(ctx, config.AppConfig.GCSBucket)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using GCS object store", zap.String("bucket", config.AppConfig.GCSBucket))
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close GCS client", zap.Error(err))
			}
		}, nil
	case "local", "":
		store, err := objectstore.NewLocalStore(config.AppConfig.UploadsDir, config.AppConfig.PublicBaseURL+"/files")
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using local object store", zap.String("dir", config.AppConfig.UploadsDir))
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_BACKEND %q", config.AppConfig.StorageBackend)
	}
}
