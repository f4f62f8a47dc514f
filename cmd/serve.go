package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"layout-sync/core/loader"
	"layout-sync/core/logger"
	"layout-sync/core/middleware/auth"
	"layout-sync/core/middleware/rayid"
	"layout-sync/feature/layout"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd starts the read-only HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only layouts API",
	Long:  `Starts the HTTP server exposing the persisted layouts and the current sync plan.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	logg := a.logger
	zap.ReplaceGlobals(logg)

	if err := a.service.Prepare(context.Background(), a.cfg.Database.AutoMigrate); err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           a.cfg.Server.ReadTimeout(),
	})

	// RayID first so every later log line carries it
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	if !a.cfg.Server.IsProtected() {
		logg.Warn("No API key configured, the API is open")
	}
	app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

	mgr := loader.NewManager(logg)
	mgr.Register(layout.NewFeature(a.service))
	if err := mgr.LoadAll(app); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
		errCh <- app.Listen(":" + a.cfg.Server.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
		logg.Info("Shutting down server...")
		return app.Shutdown()
	}
}
