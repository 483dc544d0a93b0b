package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ordering/cmd"
	"ordering/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs := getConfigs()
	appLogger := configs.Logger(os.Stderr)

	db, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	if err = postgres.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cmd.NewCompositionRoot(configs, db, appLogger)
	if err != nil {
		log.Fatalf("build application: %v", err)
	}
	if err = app.Seed(ctx); err != nil {
		log.Fatalf("seed database: %v", err)
	}

	app.StartBroadcasting(ctx)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("start jobs: %v", err)
	}

	e, err := app.CreateRouter()
	if err != nil {
		log.Fatalf("build router: %v", err)
	}
	startWebServer(ctx, e, configs.HTTPPort)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	jobManager.StopAll()
	if err = e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", "error", err)
	}
	if err = app.Close(shutdownCtx); err != nil {
		appLogger.Error("close application", "error", err)
	}
	appLogger.Info("stopped")
}

func getConfigs() cmd.Config {
	// .env is optional; real environment variables win
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("invalid configuration:\n%v", err)
	}
	return config
}

// startWebServer serves until ctx is cancelled. A listener failure is fatal.
func startWebServer(ctx context.Context, e *echo.Echo, port string) {
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", port))
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	case <-ctx.Done():
	}
}
