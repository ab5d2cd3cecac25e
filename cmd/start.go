package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"media-catalog/core/loader"
	"media-catalog/core/logger"
	"media-catalog/core/middleware/auth"
	"media-catalog/core/middleware/rayid"
	"media-catalog/feature/catalog"
	"media-catalog/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "media-catalog/docs/swagger"
)

// @title Media Catalog API
// @version 1.0
// @description API for the media catalog and its ordered relationships.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the catalog server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Configuration, logger, database and catalog service
		a, err := bootstrap()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := a.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			ReadTimeout:           a.cfg.Server.ReadTimeout(),
		})

		if a.store == nil {
			logg.Info("Object storage not configured, report uploads disabled")
		}

		// 3. Initialize Feature Loader
		mgr := loader.NewManager(logg)
		mgr.Register(catalog.NewFeature(a.catalog))
		mgr.Register(integrity.NewFeature(
			a.db,
			a.catalog.Engine(),
			a.catalog.Registry(),
			a.store,
			a.cfg.Storage.Bucket,
			a.cfg.Catalog.IntegrityCacheTTL(),
			logg,
		))

		// 4. Middleware: RayID first so every log line carries it
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

		// Swagger stays public
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("address", a.cfg.Server.Address()))
			if err := app.Listen(a.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
