package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photoline/config"
	"photoline/internal/handler"
	"photoline/internal/middleware"
	"photoline/internal/services"
	"photoline/internal/transport/httpdto"
	"photoline/internal/websocket"
	"photoline/pkg/database"
	"photoline/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
	db         *pgxpool.Pool
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	Twilio     *handler.TwilioHandler
	Submission *handler.SubmissionHandler
	Metadata   *handler.MetadataHandler
	Feed       *websocket.Handler
}

func New(cfg *config.Config, l *logger.Logger, db *pgxpool.Pool) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
		db:     db,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), s.db); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	s.engine.POST("/v1/auth/login", handlers.Auth.Login)
	s.engine.POST("/v1/twilio/mms", handlers.Twilio.ReceiveMMS)
	s.engine.GET("/v1/ws", handlers.Feed.Connect)

	subs := s.engine.Group("/v1/submissions")
	{
		subs.GET("/approved", handlers.Submission.ListApproved)
		subs.GET("/:id/image", handlers.Submission.GetImage)

		subs.GET("/pending", middleware.AuthMiddleware(authService), handlers.Submission.ListPending)
		subs.POST("/:id/approve", middleware.AuthMiddleware(authService), handlers.Submission.Approve)
		subs.POST("/:id/discard", middleware.AuthMiddleware(authService), handlers.Submission.Discard)
	}

	meta := s.engine.Group("/v1/meta", middleware.AuthMiddleware(authService))
	{
		meta.GET("/numbers", handlers.Metadata.ListNumbers)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}
