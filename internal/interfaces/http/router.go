// Package http exposes the management REST API plus the operational
// health and readiness endpoints.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appsub "github.com/planhub-io/planhub/internal/application/subscription"
	"github.com/planhub-io/planhub/internal/infrastructure/config"
	"github.com/planhub-io/planhub/internal/interfaces/http/handlers"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

type Router struct {
	engine       *gin.Engine
	db           *gorm.DB
	redis        *redis.Client
	cfg          *config.Config
	log          logger.Interface
	subscription *handlers.SubscriptionHandler
}

func NewRouter(db *gorm.DB, redisClient *redis.Client, subEngine *appsub.Engine, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{
		engine:       engine,
		db:           db,
		redis:        redisClient,
		cfg:          cfg,
		log:          log,
		subscription: handlers.NewSubscriptionHandler(subEngine),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", r.health)
	r.engine.GET("/ready", r.ready)

	v1 := r.engine.Group("/api/v1")
	{
		subs := v1.Group("/subscriptions")
		subs.POST("", r.subscription.Create)
		subs.GET("", r.subscription.Search)
		subs.GET("/:sid", r.subscription.Get)
		subs.PUT("/:sid", r.subscription.Update)
		subs.DELETE("/:sid", r.subscription.Delete)
		subs.POST("/:sid/_process", r.subscription.Process)
		subs.POST("/:sid/_close", r.subscription.Close)
		subs.POST("/:sid/apikeys/_renew", r.subscription.RenewApiKey)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

func (r *Router) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ready reports whether the backing stores answer. A failing dependency
// returns 503 so orchestrators hold traffic.
func (r *Router) ready(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	sqlDB, err := r.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		r.log.Warnw("database readiness check failed", "error", err)
		checks["database"] = "down"
		healthy = false
	} else {
		checks["database"] = "up"
	}

	if r.redis != nil {
		if err := r.redis.Ping(c.Request.Context()).Err(); err != nil {
			r.log.Warnw("redis readiness check failed", "error", err)
			checks["redis"] = "down"
			healthy = false
		} else {
			checks["redis"] = "up"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"checks": checks})
}
