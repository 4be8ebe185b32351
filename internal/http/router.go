package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/boardside/kilterboard-backend/internal/http/handlers"
	httpMW "github.com/boardside/kilterboard-backend/internal/http/middleware"
	"github.com/boardside/kilterboard-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler
	ProblemHandler *httpH.ProblemHandler
	BoardHandler   *httpH.BoardHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}

		// Boards (public geometry catalog)
		if cfg.BoardHandler != nil {
			api.GET("/boards", cfg.BoardHandler.List)
			api.GET("/boards/:name", cfg.BoardHandler.Get)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.GET("/me/statistics", cfg.UserHandler.GetStatistics)
			protected.POST("/me/avatar", cfg.UserHandler.RegenerateAvatar)
		}

		// Problems
		if cfg.ProblemHandler != nil {
			protected.POST("/problems", cfg.ProblemHandler.CreateDraft)
			protected.GET("/problems", cfg.ProblemHandler.ListPublished)
			protected.GET("/problems/mine", cfg.ProblemHandler.ListMine)
			protected.GET("/problems/:id", cfg.ProblemHandler.Get)
			protected.PUT("/problems/:id/holds", cfg.ProblemHandler.EditHolds)
			protected.POST("/problems/:id/publish", cfg.ProblemHandler.Publish)
			protected.DELETE("/problems/:id", cfg.ProblemHandler.Archive)

			protected.POST("/problems/:id/vote", cfg.ProblemHandler.Vote)
			protected.GET("/problems/:id/rating", cfg.ProblemHandler.Rating)

			protected.POST("/problems/:id/attempts", cfg.ProblemHandler.RecordAttempt)
			protected.GET("/problems/:id/attempts", cfg.ProblemHandler.ListAttempts)

			protected.POST("/problems/:id/light", cfg.ProblemHandler.Light)
		}
	}

	return r
}
