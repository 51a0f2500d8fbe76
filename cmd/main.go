package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"zesto-backend/cmd/config"
	migration "zesto-backend/cmd/database/migrate"
	"zesto-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()
	utils.LoadConfig()

	appLogger, err := utils.NewLogger(utils.GetConfig("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	db, err := config.ConnectDB()
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}

	if err := migration.Migrate(db); err != nil {
		appLogger.Fatal("database migration failed", zap.Error(err))
	}
	appLogger.Info("database migration complete")

	ctx := context.Background()
	app, err := config.NewApp(ctx, db, appLogger)
	if err != nil {
		appLogger.Fatal("failed to build app", zap.Error(err))
	}

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		appLogger.Info("starting http server", zap.String("port", port))
		if err := app.Listen(":" + port); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	appLogger.Info("server stopped")
}
