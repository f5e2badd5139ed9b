// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"estatehub_backend/internal/assistant"
	"estatehub_backend/internal/common"
	"estatehub_backend/internal/config"
	"estatehub_backend/internal/favorite"
	"estatehub_backend/internal/filestorage"
	"estatehub_backend/internal/firebase"
	"estatehub_backend/internal/jobs"
	"estatehub_backend/internal/middleware"
	"estatehub_backend/internal/notification"
	platformes "estatehub_backend/internal/platform/elasticsearch"
	"estatehub_backend/internal/property"
	"estatehub_backend/internal/request"
	"estatehub_backend/internal/setting"
	"estatehub_backend/internal/shared"
	"estatehub_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Handlers
	userHandler         *user.Handler
	propertyHandler     *property.Handler
	requestHandler      *request.Handler
	notificationHandler *notification.Handler
	favoriteHandler     *favorite.Handler
	settingHandler      *setting.Handler
	assistantHandler    *assistant.Handler
	uploadHandler       *filestorage.Handler

	// Jobs
	notificationCleanupJob *jobs.NotificationCleanupJob

	// Exposed for startup tasks in main (index creation).
	ESClient  *platformes.ESClientWrapper
	AppLogger *zap.Logger
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	userHandler *user.Handler,
	propertyHandler *property.Handler,
	requestHandler *request.Handler,
	notificationHandler *notification.Handler,
	favoriteHandler *favorite.Handler,
	settingHandler *setting.Handler,
	assistantHandler *assistant.Handler,
	uploadHandler *filestorage.Handler,
	notificationCleanupJob *jobs.NotificationCleanupJob,
	firebaseService *firebase.FirebaseService,
	userService shared.Service,
	favoriteService favorite.Service,
	esClient *platformes.ESClientWrapper,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"*"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// The favorite service watches for session identity changes so it
	// can drop the previous user's cached membership set.
	authMW := middleware.AuthMiddleware(firebaseService, userService, favoriteService, logger.Named("AuthMiddleware"))
	optionalAuthMW := middleware.OptionalAuthMiddleware(firebaseService, userService, favoriteService, logger.Named("OptionalAuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "EstateHub API is healthy!"})
	})

	// Stored images are served straight off disk.
	router.Static("/uploads", cfg.StorageBasePath)

	v1 := router.Group("/api/v1")

	userHandler.RegisterRoutes(v1, authMW)
	propertyHandler.RegisterRoutes(v1, authMW, optionalAuthMW, adminRoleMW)
	requestHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	notificationHandler.RegisterRoutes(v1, authMW)
	favoriteHandler.RegisterRoutes(v1, authMW)
	settingHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	assistantHandler.RegisterRoutes(v1)
	uploadHandler.RegisterRoutes(v1, authMW, adminRoleMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:             httpServer,
		router:                 router,
		cfg:                    cfg,
		logger:                 logger,
		userHandler:            userHandler,
		propertyHandler:        propertyHandler,
		requestHandler:         requestHandler,
		notificationHandler:    notificationHandler,
		favoriteHandler:        favoriteHandler,
		settingHandler:         settingHandler,
		assistantHandler:       assistantHandler,
		uploadHandler:          uploadHandler,
		notificationCleanupJob: notificationCleanupJob,
		ESClient:               esClient,
		AppLogger:              logger,
	}, nil
}

// Start launches the background jobs and the HTTP listener.
func (s *Server) Start() error {
	if s.notificationCleanupJob != nil {
		if err := s.notificationCleanupJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start notification cleanup job", zap.Error(err))
		}
	} else {
		s.logger.Info("Notification cleanup job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

// Shutdown stops the jobs, then drains in-flight HTTP requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.notificationCleanupJob != nil {
		s.notificationCleanupJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
