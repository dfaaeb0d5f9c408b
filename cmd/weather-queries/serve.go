package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-queries/internal/api/http"
	"github.com/i474232898/weather-queries/internal/config"
	"github.com/i474232898/weather-queries/internal/logger"
	"github.com/i474232898/weather-queries/internal/scheduler"
)

const appName = "weather-queries"

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(commandContext(cmd), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.AppConfig) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error(err)
		}
	}()

	service := newService(cfg, st)

	// Periodic refresh of stored queries, disabled unless REFRESH_INTERVAL is set.
	sched := scheduler.New(cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	app := newApp(cfg, service)

	go func() {
		logger.WithFields(logger.Fields{
			"port":   cfg.Port,
			"driver": cfg.DBDriver,
			"env":    cfg.Env,
		}).Info("http server listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Warnf("fiber server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warnf("error during shutdown: %v", err)
	}
	return nil
}

func newApp(cfg *config.AppConfig, service httpapi.WeatherService) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Create and update make two outbound calls in sequence.
		WriteTimeout: 2*cfg.HTTPTimeout + 10*time.Second,
		ErrorHandler: httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		Output: logger.Writer(),
	}))
	app.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
		})
	})

	httpapi.RegisterRoutes(app, service)

	return app
}

func corsConfig(origins []string) cors.Config {
	allowed := strings.Join(origins, ",")
	if allowed == "" {
		allowed = "*"
	}
	return cors.Config{
		AllowOrigins: allowed,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		// Credentials cannot be combined with a wildcard origin.
		AllowCredentials: !strings.Contains(allowed, "*"),
	}
}
