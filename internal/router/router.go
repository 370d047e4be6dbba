package router

import (
	"time"

	"github.com/hkennandya-dev/morning-glory-test-go/internal/config"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/entity"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/handler"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/middleware"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/model"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/repository"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Store ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimit, time.Minute))

	r.GET("/health", handler.Health(db, rdb))

	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute

	mount[model.CategoryItem](r, cfg, db, rdb, ttl, entity.Category())
	mount[model.ItemRow](r, cfg, db, rdb, ttl, entity.Item())
	mount[model.StockRow](r, cfg, db, rdb, ttl, entity.Stock())

	return r
}

// mount wires one entity's store, service, and handler, then registers its
// full route set under the entity's base path.
func mount[R any](r *gin.Engine, cfg *config.Config, db *gorm.DB, rdb *redis.Client, ttl time.Duration, def entity.Definition) {
	store := repository.NewStore[R](db, def)
	svc := service.NewCRUD[R](def, store, cfg.DefaultPageSize, cfg.MaxPageSize)
	h := handler.NewCRUDHandler[R](svc, rdb, ttl)

	g := r.Group(def.BasePath)
	{
		g.GET("", h.List)
		g.POST("", h.Create)
		g.POST("/bulk", h.CreateBulk)
		g.DELETE("/bulk", h.DeleteBulk)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.PUT("/:id/recovery", h.Recover)
		g.DELETE("/:id", h.Delete)
	}
}
