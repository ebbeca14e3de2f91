package routes

import (
	"io"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"restaurant_pos/internal/cache"
	"restaurant_pos/internal/controllers"
	"restaurant_pos/internal/metrics"
	"restaurant_pos/internal/middleware"
)

type Dependencies struct {
	Handler *controllers.Handler
	Policy  *middleware.Policy
	Gateway *middleware.Gateway
	Cache   *cache.Catalog
	Limiter *middleware.RateLimiter
	// AccessLog receives one line per request; nil disables the access log.
	AccessLog io.Writer
}

func SetupRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(controllers.Templates())

	r.Use(middleware.RequestID())
	if d.AccessLog != nil {
		r.Use(ginlog.SetLogger(
			ginlog.WithWriter(d.AccessLog),
			ginlog.WithUTC(true),
			ginlog.WithSkipPath([]string{"/health", "/metrics"}),
		))
	}
	r.Use(gin.Recovery())
	r.Use(metrics.Instrument())
	r.Use(d.Gateway.Handler())

	root := newRegistrar(&r.RouterGroup, d.Policy)
	root.GET("/health", public, controllers.Health)
	root.GET("/metrics", manager, gin.WrapH(metrics.Handler()))
	PageRoutes(root, d)

	api := root.Group("/api/v1")
	AuthRoutes(api, d)
	CatalogRoutes(api, d)
	TableRoutes(api, d)
	CustomerRoutes(api, d)
	StaffRoutes(api, d)
	OrderRoutes(api, d)
	PaymentRoutes(api, d)
	FeedbackRoutes(api, d)
	DashboardRoutes(api, d)

	return r
}
