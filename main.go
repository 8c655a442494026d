package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/spf13/cobra"

	"sticker-canvas/config"
	"sticker-canvas/logging"
	"sticker-canvas/session"
)

func setupApp(sessionManager *session.Manager) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Content-Type",
		ExposeHeaders: "Content-Disposition",
	}))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/templates", sessionManager.ListTemplates)
	app.Post("/session", sessionManager.CreateSession)
	app.Get("/session/:id", sessionManager.GetSession)
	app.Get("/session/:id/export", sessionManager.Export)

	app.Get("/ws/:sessionId", websocket.New(sessionManager.HandleWS))

	return app
}

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "sticker-canvas",
		Short:         "Place stickers on a shared canvas and export it as PNG",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.json", "path to the JSON config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newServeCmd(opts), newExportCmd(opts))
	return cmd
}

// load reads the config and builds the logger it asks for.
func (o *rootOptions) load() (config.Config, *log.Logger) {
	cfg := config.Load(o.configPath)
	level := logging.ParseLevel(cfg.LogLevel)
	if o.verbose {
		level = log.DebugLevel
	}
	return cfg, logging.New(os.Stderr, level)
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sticker canvas server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := opts.load()
			if addr != "" {
				cfg.ListenAddr = addr
			}

			app := setupApp(session.NewManager(cfg, logger))
			logger.Info("listening", "addr", cfg.ListenAddr)
			return app.Listen(cfg.ListenAddr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
