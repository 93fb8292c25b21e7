package http

import (
	"context"

	"taskmanager/internal/config"
	"taskmanager/internal/events"
	"taskmanager/internal/http/handlers"
	"taskmanager/internal/http/middleware"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// Deps are the long-lived collaborators the routes are built from.
type Deps struct {
	Store   repository.Store
	Hub     *events.Hub
	Tokens  *service.TokenManager // nil: placeholder owner for every create
	Redis   *redis.Client         // nil: in-memory rate limiter
	Version string
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.AllowedOrigin))

	RegisterRoutes(r, cfg, deps)
	return r
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps) {
	var publisher service.EventPublisher
	if deps.Hub != nil {
		publisher = deps.Hub
	}
	h := handlers.NewHandler(service.NewTaskService(deps.Store.Tasks(), publisher))
	healthHandler := handlers.NewHealthHandler(deps.Version)
	healthHandler.AddCheck("database", deps.Store.Ping)
	if deps.Redis != nil {
		healthHandler.AddCheck("redis", func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		})
	}

	r.GET("/", h.Welcome)

	// Health checks (no rate limiting)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	tasks := r.Group("/tasks")
	tasks.Use(middleware.RateLimit(deps.Redis, cfg.APIRateLimit, cfg.APIRateWindow))
	{
		tasks.POST("/", middleware.Identity(deps.Tokens, cfg.DefaultUserID), h.CreateTask)
		tasks.GET("/", h.ListTasks)
		tasks.GET("/:task_id", h.GetTask)
		tasks.PUT("/:task_id", h.UpdateTask)
		tasks.DELETE("/:task_id", h.DeleteTask)
	}

	if deps.Hub != nil {
		r.GET("/ws/tasks", handlers.TaskEvents(deps.Hub, cfg.AllowedOrigin))
	}
}
