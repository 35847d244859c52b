package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zh-address-parser/app/config"
	"github.com/zh-address-parser/app/controllers"
	"github.com/zh-address-parser/app/middleware"
	"github.com/zh-address-parser/app/providers"
	"github.com/zh-address-parser/app/services"
	"github.com/zh-address-parser/helpers/logger"
	"github.com/zh-address-parser/internal/metrics"
	"github.com/zh-address-parser/routes"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	// 2. Khởi tạo logger
	zl, err := logger.New(cfg.App.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Cannot initialize logger: %v", err)
	}
	defer zl.Sync()

	zl.Info("Starting Address Parser Service", zap.String("env", cfg.App.Env))
	metrics.MustRegisterAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Store, parser, cache và services
	container, err := providers.New(ctx, cfg, zl, providers.Options{})
	if err != nil {
		zl.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer func() {
		if err := container.Close(); err != nil {
			zl.Error("Error closing components", zap.Error(err))
		}
	}()

	container.AddressService.StartJobJanitor(ctx, time.Minute)

	// 4. Controllers và routes
	addressController := controllers.NewAddressController(container.AddressService, container.AdminService, zl)
	adminController := controllers.NewAdminController(container.AdminService, container.AddressService, zl)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, addressController, adminController,
		middleware.AuthMiddleware(container.AuthService, services.RoleAdmin), zl)

	// 5. Khởi động server
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zl.Info("Address Parser Service starting", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
	}
	zl.Info("Server exited")
}
