// Package httpapi exposes the auth and task services over a small REST API.
// It owns routing, token extraction, and the mapping of service errors to
// HTTP status codes; all business rules live in the services package.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

// Server is the REST front of taskkeeper.
type Server struct {
	address string
	logger  logging.Logger
	users   *services.UserService
	tasks   *services.TaskService
	origins string
}

// NewServer wires the REST server to the given services.
func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, ts *services.TaskService) (*Server, error) {
	return &Server{
		address: cfg.EndpointAddr,
		logger:  l.With("module", "httpapi"),
		users:   us,
		tasks:   ts,
		origins: cfg.CORSAllowedOrigins,
	}, nil
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	corsConfig := cors.DefaultConfig()
	if s.origins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(s.origins, ",")
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		api.POST("/register", s.handleRegister)
		api.POST("/login", s.handleLogin)

		protected := api.Group("", s.authRequired())
		{
			protected.GET("/me", s.handleMe)

			tasks := protected.Group("/tasks")
			{
				tasks.POST("", s.handleCreateTask)
				tasks.GET("", s.handleListTasks)
				tasks.GET("/:id", s.handleGetTask)
				tasks.PUT("/:id", s.handleReplaceTask)
				tasks.PATCH("/:id", s.handlePatchTask)
				tasks.DELETE("/:id", s.handleDeleteTask)
			}
		}
	}

	return router
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "taskkeeper"})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
