package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/motolog/motolog/internal/api/geocoder"
	"github.com/motolog/motolog/internal/api/handlers"
	"github.com/motolog/motolog/internal/api/middleware"
	"github.com/motolog/motolog/internal/config"
	"github.com/motolog/motolog/internal/repository"
	"github.com/motolog/motolog/internal/service"
	"github.com/motolog/motolog/internal/session"
	"github.com/motolog/motolog/pkg/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting motolog",
		zap.String("port", cfg.ServerPort),
		zap.String("timezone", cfg.Timezone))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migrated successfully")

	motorcycleRepo := repository.NewMotorcycleRepository(db)
	tripRepo := repository.NewTripRepository(db)
	fixRepo := repository.NewFixRepository(db)
	fuelingRepo := repository.NewFuelingRepository(db)
	earningRepo := repository.NewEarningRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)

	wsHub := ws.NewHub(logger)
	go wsHub.Run()

	// left as a nil interface when disabled
	var geo service.Geocoder
	if cfg.GeocoderEnabled {
		geo = geocoder.NewClient(geocoder.DefaultBaseURL, cfg.GeocoderUserAgent, logger)
	}

	trackingService := service.NewTrackingService(
		service.TrackingConfig{
			IdleTimeout:   cfg.TrackingIdleTimeout,
			SweepInterval: cfg.TrackingSweepInterval,
		},
		logger,
		tripRepo,
		fixRepo,
		geo,
		wsHub,
	)
	wsHub.SetInitDataProvider(func(riderID string) interface{} {
		return trackingService.Session(riderID)
	})
	sessions := trackingService.Subscribe()
	go service.RelaySessions(sessions, wsHub)
	if err := trackingService.Start(ctx); err != nil {
		logger.Fatal("Failed to start tracking service", zap.Error(err))
	}

	reportService := service.NewReportService(
		service.ReportConfig{
			FuelWindow:             cfg.FuelWindow,
			MaintenanceThresholdKm: cfg.MaintenanceThresholdKm,
			TargetEarningPerKm:     cfg.TargetEarningPerKm,
			Location:               cfg.Location,
		},
		logger,
		fuelingRepo,
		earningRepo,
		maintenanceRepo,
		referenceRepo,
		motorcycleRepo,
	)

	handler := handlers.NewHandler(logger, handlers.Deps{
		Tracker:      trackingService,
		Reports:      reportService,
		Motorcycles:  motorcycleRepo,
		Trips:        tripRepo,
		Fixes:        fixRepo,
		Fuelings:     fuelingRepo,
		Earnings:     earningRepo,
		Maintenances: maintenanceRepo,
		Reference:    referenceRepo,
		Hub:          wsHub,
		Location:     cfg.Location,
	})

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())

	verifier := session.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	handler.RegisterRoutes(router, middleware.Authenticate(verifier))

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// open sessions stay open in the database and are completed on the next start
	trackingService.Stop()
	sessions.Close()
	wsHub.Stop()

	logger.Info("Server exited")
}

func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}
