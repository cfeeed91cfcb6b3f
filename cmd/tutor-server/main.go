package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/tutor/internal/archive"
	"github.com/at-ishikawa/tutor/internal/bootstrap"
	"github.com/at-ishikawa/tutor/internal/config"
	"github.com/at-ishikawa/tutor/internal/inference"
	"github.com/at-ishikawa/tutor/internal/inference/gemini"
	"github.com/at-ishikawa/tutor/internal/server"
	"github.com/at-ishikawa/tutor/internal/session"
)

var configFile string

func main() {
	var debugMode bool
	rootCmd := &cobra.Command{
		Use:           "tutor-server",
		Short:         "Tutor HTTP API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			if err := godotenv.Load(); err != nil {
				slog.Info("No .env file found, using environment variables")
			}
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	app := bootstrap.New(bootstrap.DefaultShutdownTimeout)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}
	if cfg.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	defaultSubject, err := inference.ParseSubject(cfg.Session.DefaultSubject)
	if err != nil {
		return fmt.Errorf("inference.ParseSubject() > %w", err)
	}

	client := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL)
	app.AddShutdownHook("gemini client", func(context.Context) error {
		return client.Close()
	})

	var repository *archive.DBRepository
	if cfg.Database.Enabled {
		repository, err = archive.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("archive.Connect() > %w", err)
		}
		app.AddShutdownHook("archive", func(context.Context) error {
			return repository.Close()
		})
	}

	sessions := server.NewSessionCache(cfg.Server.MaxSessions, func(sessionID uuid.UUID) *session.Store {
		var options []session.Option
		if repository != nil {
			options = append(options, session.WithRecorder(archive.NewRecorder(repository, sessionID.String())))
		}
		return session.NewStore(client, defaultSubject, options...)
	})
	router := server.NewRouter(server.NewTutorHandler(sessions), cfg.Server.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: h2c.NewHandler(router, &http2.Server{}),
	}
	app.AddShutdownHook("http server", srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Info("Starting server",
			"addr", srv.Addr,
			"model", client.GetModel(),
			"archive", cfg.Database.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
}
