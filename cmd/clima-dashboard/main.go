package main

import (
	"context"
	"flag"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/evilsocket/islazy/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/api/http"
	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/climate"
	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/config"
	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/scheduler"
	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/store"
)

type readingStore interface {
	climate.Store
	io.Closer
}

func main() {
	flag.Parse()
	setup()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: %v", err)
	}

	db, err := openStore(cfg)
	if err != nil {
		log.Fatal("failed to open store: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("closing store: %v", err)
		}
	}()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim := climate.NewSimulator(cfg.Temperature, cfg.Humidity, seed)

	// Core service: sample, persist, group history.
	service := climate.NewService(db, sim, cfg.Zones, climate.WithHistoryDays(cfg.HistoryDays))

	// Optional background refresh.
	sched := scheduler.New(cfg.AutoRefresh, service)
	if err := sched.Start(); err != nil {
		log.Fatal("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "clima-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		Views:                 httpapi.NewViews(),
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use("/api", cors.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "clima-dashboard",
		})
	})

	httpapi.RegisterRoutes(app, service, cfg.Title)

	go func() {
		log.Info("%s listening on :%s (%d zones, store=%s)", cfg.Title, cfg.Port, len(cfg.Zones), cfg.StoreDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown: %v", err)
	}
}

func openStore(cfg *config.AppConfig) (readingStore, error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warning("using in-memory store, readings are lost on exit")
		return store.NewMemoryStore(), nil
	}
	db, err := store.OpenSQLite(cfg.DatabasePath, debug)
	if err != nil {
		return nil, err
	}
	return db, nil
}
