package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"signal-service/internal/config"
	"signal-service/internal/handler"
	"signal-service/internal/middleware"
	"signal-service/internal/response"
	"signal-service/internal/ws"
)

func Setup(
	cfg *config.Config,
	logger *zap.Logger,
	validator middleware.TokenValidator,
	presenceHandler *handler.PresenceHandler,
	callHandler *handler.CallHandler,
	memberHandler *handler.MemberHandler,
	healthHandler *handler.HealthHandler,
	wsHub *ws.Hub,
) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		response.SendError(c, http.StatusMethodNotAllowed, response.ErrCodeMethodNotAllowed, "Method not allowed")
	})

	// Middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.Metrics())

	// Health endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", middleware.MetricsHandler())

	// API routes with base path
	api := r.Group(cfg.Server.BasePath)
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)

		// WebSocket push edge
		api.GET("/ws/events", wsHub.HandleEvents)

		// Authenticated routes
		authenticated := api.Group("")
		authenticated.Use(middleware.AuthMiddleware(validator))
		{
			authenticated.PUT("/presence/status", presenceHandler.UpdateStatus)
			authenticated.GET("/presence/status/:userId", presenceHandler.GetStatus)

			authenticated.POST("/calls/start", callHandler.StartCall)
			authenticated.POST("/calls/end", callHandler.EndCall)

			authenticated.POST("/members/poll", memberHandler.TriggerPoll)
			authenticated.GET("/members/changed", memberHandler.PollChanged)
		}
	}

	return r
}
