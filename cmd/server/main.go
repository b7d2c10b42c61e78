package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/cache"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/database"
	"github.com/inkpost/inkpost/internal/handlers"
	"github.com/inkpost/inkpost/internal/logger"
	"github.com/inkpost/inkpost/internal/middleware"
	"github.com/inkpost/inkpost/internal/storage"
	"github.com/inkpost/inkpost/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	if err := database.Initialize(); err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Page cache: Redis when configured, process-local otherwise
	var pageCache cache.Store
	if cfg.RedisHost != "" {
		redisStore, err := cache.NewRedisStore(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
		if err != nil {
			logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisStore.Close()
		pageCache = redisStore
	} else {
		logger.Log.Warn("REDIS_HOST not set, using in-memory page cache")
		pageCache = cache.NewMemoryStore()
	}

	var imageStorage storage.Storage
	if cfg.StorageBackend == "s3" {
		s3Storage, err := storage.NewS3Storage(cfg.AWSRegion, cfg.AWSBucket, cfg.CDNBaseURL)
		if err != nil {
			logger.Log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		if err := s3Storage.CheckBucketAccess(context.Background()); err != nil {
			logger.Log.Warn("S3 bucket access failed, image uploads will fail", zap.Error(err))
		}
		imageStorage = s3Storage
	} else {
		localStorage, err := storage.NewLocalStorage(cfg.MediaDir)
		if err != nil {
			logger.Log.Fatal("Failed to initialize local storage", zap.Error(err))
		}
		imageStorage = localStorage
	}

	authService := auth.NewService([]byte(cfg.SessionSecret))
	h := handlers.New(authService, pageCache, imageStorage)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.SetHTMLTemplate(web.Templates())

	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		h.RenderServerError(c)
	}))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		if err := database.Health(); err != nil {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":    http.StatusText(status),
			"timestamp": time.Now().UTC(),
			"service":   "inkpost",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.StorageBackend != "s3" {
		r.Static("/media", cfg.MediaDir)
	}

	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Forced shutdown", zap.Error(err))
	}
}
