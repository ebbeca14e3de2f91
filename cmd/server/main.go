package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"restaurant_pos/internal/cache"
	"restaurant_pos/internal/config"
	"restaurant_pos/internal/controllers"
	"restaurant_pos/internal/logger"
	"restaurant_pos/internal/middleware"
	"restaurant_pos/internal/routes"
	"restaurant_pos/internal/services"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("config: %v", err)
	}

	// Initialize structured logging to file
	accessLog := logger.Setup(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg, logger.GormLogger())
	if err != nil {
		logrus.Fatalf("database: %v", err)
	}

	catalogCache := cache.NewCatalog(config.NewRedisClient(cfg), cfg.CacheTTL)

	staff := services.NewStaffService(db)
	if err := staff.EnsureManager(context.Background(), cfg.BootstrapManagerUsername, cfg.BootstrapManagerPassword); err != nil {
		logrus.Fatalf("bootstrap manager: %v", err)
	}

	creds := middleware.NewCredentials(cfg.JWTSecret, cfg.AccessTokenTTL)
	policy := middleware.NewPolicy()
	gateway := middleware.NewGateway(policy, creds, staff, cfg.CookieSecure)

	r := routes.SetupRouter(routes.Dependencies{
		Handler: &controllers.Handler{
			Orders:      services.NewOrderService(db),
			Payments:    services.NewPaymentService(db),
			Catalog:     services.NewCatalogService(db, catalogCache),
			Tables:      services.NewTableService(db),
			Customers:   services.NewCustomerService(db),
			Staff:       staff,
			Feedback:    services.NewFeedbackService(db),
			Dashboard:   services.NewDashboardService(db),
			Credentials: creds,
			Gateway:     gateway,
		},
		Policy:    policy,
		Gateway:   gateway,
		Cache:     catalogCache,
		Limiter:   middleware.NewRateLimiter(cfg.LoginRatePerMin, cfg.LoginBurst),
		AccessLog: accessLog,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.EnableCORS(cfg.CORSOrigins)(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("server running at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
