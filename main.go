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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/postly/api/audit"
	"github.com/postly/api/cache"
	"github.com/postly/api/config"
	"github.com/postly/api/controller"
	"github.com/postly/api/db"
	logger "github.com/postly/api/logging"
	"github.com/postly/api/router"
	"github.com/postly/api/service"
	"github.com/postly/api/token"
	"github.com/postly/api/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize MongoDB
	if err := db.InitMongo(); err != nil {
		logger.Fatal("Failed to initialize MongoDB", zap.Error(err))
	}
	defer db.CloseMongo()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize services and utilities
	validationUtil := util.NewValidationUtil()
	cacheService := util.NewCacheService(cache.New())
	notificationService := util.NewNotificationService()
	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize Elasticsearch", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository)

	tokens, err := token.NewService(
		config.GetString("auth.accessTokenSecret"),
		config.GetString("auth.refreshTokenSecret"),
		config.GetDuration("auth.accessTokenTTL"),
		config.GetDuration("auth.refreshTokenTTL"),
	)
	if err != nil {
		logger.Fatal("Failed to initialize token service", zap.Error(err))
	}

	// Initialize services
	services := service.InitializeServices(
		db.MongoDatabase,
		tokens,
		auditService,
		cacheService,
		notificationService,
		eventBus,
	)

	// Initialize controllers
	controllers := controller.InitializeControllers(services, validationUtil)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(
		controllers,
		tokens,
		config.GetInt("ratelimit.requests"),
		config.GetDuration("ratelimit.window"),
	)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
