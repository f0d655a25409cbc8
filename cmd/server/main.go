package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zonewatch/internal/auth"
	"zonewatch/internal/config"
	"zonewatch/internal/database"
	"zonewatch/internal/logger"
	"zonewatch/internal/models"
	"zonewatch/internal/observability"
	"zonewatch/internal/routes"
	"zonewatch/internal/services"
	"zonewatch/internal/simulation"
	"zonewatch/internal/zones"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger depends on config
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logr := logger.New(cfg)
	defer logr.Sync()

	shutdownTracing, err := observability.SetupTracing(cfg.TracingEnabled, os.Stdout)
	if err != nil {
		logr.Fatal("failed to set up tracing", zap.Error(err))
	}

	db, err := database.New(cfg.DatabaseURL, cfg.BunDebug)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		logr.Fatal("failed to migrate database", zap.Error(err))
	}

	zoneList := zones.Default(cfg.CenterLat, cfg.CenterLng)
	if cfg.ZonesFile != "" {
		zoneList, err = zones.LoadFile(cfg.ZonesFile)
		if err != nil {
			logr.Fatal("failed to load zones file", zap.Error(err), zap.String("path", cfg.ZonesFile))
		}
	}
	zoneSvc := services.NewZoneService(db)
	seeded, err := zoneSvc.Seed(ctx, zoneList)
	if err != nil {
		logr.Fatal("failed to seed zones", zap.Error(err))
	}
	logr.Info("zones ready", zap.Int("seeded", seeded))

	jwtMgr, ephemeral, err := auth.LoadOrGenerate(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.JWTIssuer)
	if err != nil {
		logr.Fatal("failed to init jwt manager", zap.Error(err))
	}
	if ephemeral {
		logr.Warn("jwt key files not found, using a generated key; tokens will not survive a restart",
			zap.String("private_key_path", cfg.JWTPrivateKeyPath))
	}

	authSvc := services.NewAuthService(db, jwtMgr, cfg, logr)
	if cfg.SeedDemoOfficer {
		err := authSvc.SeedOfficer(ctx, services.RegisterRequest{
			Email:    cfg.DemoOfficerEmail,
			Password: cfg.DemoOfficerPassword,
			PoliceID: "DEMO-001",
			FullName: "Demo Officer",
		})
		if err != nil {
			logr.Fatal("failed to seed demo officer", zap.Error(err))
		}
	}

	metrics, err := observability.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		logr.Fatal("failed to register metrics", zap.Error(err))
	}

	tracker := services.NewTrackerService(services.TrackerConfig{
		Generator: simulation.GeneratorConfig{
			SafeCount:       cfg.SafeCount,
			RestrictedCount: cfg.RestrictedCount,
			CenterLat:       cfg.CenterLat,
			CenterLng:       cfg.CenterLng,
			TripGroup:       cfg.TripGroup,
		},
	}, zoneSvc, metrics, logr)
	tracker.Refresh(ctx, models.TriggerInitial)
	go tracker.Run(ctx, cfg.RefreshInterval)

	r := routes.NewRouter(cfg, logr, routes.Services{
		Auth:    authSvc,
		Tracker: tracker,
		Zones:   zoneSvc,
		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Fatal("server forced to shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logr.Warn("tracing shutdown failed", zap.Error(err))
	}

	_ = db.Close()
	logr.Info("server exited gracefully")
}
