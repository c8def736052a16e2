package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/neetquiz-backend/internal/config"
	"github.com/stemsi/neetquiz-backend/internal/handler"
	"github.com/stemsi/neetquiz-backend/internal/metrics"
	"github.com/stemsi/neetquiz-backend/internal/middleware"
	"github.com/stemsi/neetquiz-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Quiz      *handler.QuizHandler
	Attempt   *handler.AttemptHandler
	DailyTask *handler.DailyTaskHandler
	WS        *handler.WSHandler
	System    *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	auth middleware.TokenValidator,
	limiter *middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = 8 << 20

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Metrics())
	router.Use(middleware.Brotli())

	// ─── Operational ───────────────────────────────────────────────────
	router.GET("/health", handlers.System.Health)
	router.GET("/metrics", metrics.Handler())

	// ─── 1. Student API (JWT, rate limited) ────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireJWT(auth))
	if limiter != nil {
		api.Use(limiter.Middleware())
	}
	{
		api.POST("/quizzes/from-images", handlers.Quiz.CreateFromImages)
		api.GET("/quizzes/history", handlers.Quiz.History)
		api.GET("/quizzes/:id", handlers.Quiz.GetQuiz)
		api.POST("/quizzes/:id/retake", handlers.Quiz.Retake)
		api.POST("/quizzes/:id/attempts", handlers.Attempt.Submit)
		api.GET("/quizzes/:id/results", handlers.Attempt.QuizResults)
		api.GET("/attempts/:id/results", handlers.Attempt.AttemptResults)

		api.GET("/daily-challenges/available", handlers.DailyTask.Available)
		api.GET("/daily-challenges/history", handlers.DailyTask.History)
		api.POST("/daily-challenges/:id/start", handlers.DailyTask.Start)
	}

	// ─── 2. Admin API (JWT + admin role) ───────────────────────────────
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.POST("/daily-tasks", handlers.DailyTask.Create)
		admin.POST("/daily-tasks/generate", handlers.DailyTask.Generate)
		admin.GET("/daily-tasks", handlers.DailyTask.List)
		admin.GET("/daily-tasks/:id", handlers.DailyTask.Get)
		admin.PUT("/daily-tasks/:id", handlers.DailyTask.Update)
		admin.DELETE("/daily-tasks/:id", handlers.DailyTask.Delete)
	}

	// ─── 3. WebSocket (token query param) ──────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(auth))
	{
		ws.GET("/batches/:batch_id/progress", handlers.WS.BatchProgress)
	}

	return router
}
