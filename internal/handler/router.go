package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/kyoto-flow-api/internal/middleware"
	"github.com/noah-isme/kyoto-flow-api/internal/service"
	"github.com/noah-isme/kyoto-flow-api/pkg/config"
	"github.com/noah-isme/kyoto-flow-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/kyoto-flow-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/kyoto-flow-api/pkg/middleware/requestid"
)

// RouterDeps gathers what NewRouter wires together.
type RouterDeps struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *service.MetricsService
	Itinerary *ItineraryHandler
	Health    *MetricsHandler
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(corsmiddleware.Options{AllowedOrigins: cfg.CORS.AllowedOrigins}))
	r.Use(middleware.WithResponseMeta())
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	r.GET("/health", deps.Health.Health)
	r.GET("/ready", deps.Health.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", deps.Health.Prometheus)
		r.GET("/metrics/snapshot", deps.Health.Snapshot)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/" + strings.Trim(cfg.APIPrefix, "/"))
	h := deps.Itinerary

	days := api.Group("/days")
	days.GET("", h.Days)
	days.POST("", h.AppendDay)
	days.PUT("/selected", h.SelectDate)
	days.GET("/:date", h.Day)

	api.GET("/events", h.Events)
	api.GET("/weather/:date", h.Weather)
	api.GET("/categories", h.Categories)
	api.GET("/export", h.Export)

	workflow := api.Group("/workflow")
	workflow.GET("", h.Workflow)
	workflow.POST("/select", h.SelectEvent)
	workflow.POST("/new", h.CreateEvent)
	workflow.POST("/edit", h.EditEvent)
	workflow.PATCH("/draft", h.UpdateDraft)
	workflow.POST("/cancel", h.CancelEdit)
	workflow.POST("/save", h.SaveEvent)
	workflow.POST("/delete", h.DeleteEvent)
	workflow.POST("/close", h.CloseEvent)

	return r
}
