// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/domain/user"
	"github.com/zozagateway/snack-backend/internal/infrastructure/database/postgres"
	"github.com/zozagateway/snack-backend/internal/infrastructure/database/redis"
	"github.com/zozagateway/snack-backend/internal/interfaces/http"
	"github.com/zozagateway/snack-backend/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg)
	log.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	ctx := context.Background()

	migration := postgres.NewMigration(db.GetDB(), log)
	if err := migration.RunAutoMigrations(ctx); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	if _, failed := migration.CreateIndexes(ctx); failed > 0 {
		log.Warnf("%d indexes could not be created", failed)
	}

	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(ctx); err != nil {
			log.Warnf("Data seeding failed: %v", err)
		}
	}

	// the admin account only ever comes from the environment
	if cfg.Seed.AdminEmail != "" && cfg.Seed.AdminPassword != "" {
		admin, err := user.NewService(db.GetDB(), cfg).EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, cfg.Seed.AdminName)
		if err != nil {
			log.Warnf("Admin seeding failed: %v", err)
		} else {
			log.Infof("👤 Admin account ready: %s", admin.Email)
		}
	}

	log.Info("✅ All systems operational!")

	server := http.NewServer(cfg, db.GetDB(), redisClient.GetClient(), log, map[string]http.HealthChecker{
		"database": db,
		"redis":    redisClient,
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("👋 Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Info("✅ Server shutdown completed")
}
