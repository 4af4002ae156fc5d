package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-chat/internal/api/http"
	"github.com/i474232898/weather-chat/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			comps, err := build(cfg)
			if err != nil {
				return err
			}
			defer comps.store.Close()

			// Scheduler that periodically checkpoints the store.
			sched := scheduler.New(comps.store, cfg.MaintenanceInterval)
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()

			// Basic app configuration
			app := fiber.New(fiber.Config{
				AppName:               "weather-chat",
				DisableStartupMessage: true,
				ReadTimeout:           10 * time.Second,
				WriteTimeout:          cfg.RequestTimeout + 5*time.Second,
				ErrorHandler:          httpapi.ErrorHandler,
			})

			// Global middleware
			app.Use(logger.New())
			app.Use(recover.New())

			// Basic health endpoint
			app.Get("/health", func(c *fiber.Ctx) error {
				return c.JSON(fiber.Map{
					"status":  "ok",
					"service": "weather-chat",
				})
			})
			app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

			// API routes.
			httpapi.RegisterRoutes(app, comps.router, comps.store, httpapi.Options{
				RequestTimeout:  cfg.RequestTimeout,
				RecordsMaxLimit: cfg.RecordsMaxLimit,
			})

			go func() {
				log.Info().Str("port", cfg.Port).Msg("listening")
				if err := app.Listen(":" + cfg.Port); err != nil {
					log.Error().Err(err).Msg("fiber server stopped")
				}
			}()

			// Wait for termination signal
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("error during shutdown")
			}
			return nil
		},
	}
}
