package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/maxviazov/poster-api/internal/config"
	"github.com/maxviazov/poster-api/internal/handler"
	"github.com/maxviazov/poster-api/internal/logger"
	"github.com/maxviazov/poster-api/internal/model"
	"github.com/maxviazov/poster-api/internal/openapi"
	"github.com/maxviazov/poster-api/internal/server"
	"github.com/maxviazov/poster-api/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db handler.Pinger
	pg, err := storage.New(ctx, cfg.Postgres, log)
	switch {
	case errors.Is(err, storage.ErrDisabled):
		log.Info().Msg("postgres not configured, readiness skips the database")
	case err != nil:
		log.Fatal().Err(err).Msg("postgres connection failed")
	default:
		defer pg.Close()
		db = pg
	}

	srv, err := newServer(cfg, log, db)
	if err != nil {
		log.Fatal().Err(err).Msg("server setup failed")
	}
	srv.Start()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}
	log.Info().Msg("server exiting")
	return nil
}

// bootstrap loads configuration and builds the root logger.
func bootstrap() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config loading failed: %w", err)
	}
	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("logger initialization failed: %w", err)
	}
	return cfg, log, nil
}

// newServer sets up the server with the application route tree mounted.
func newServer(cfg *config.Config, log zerolog.Logger, db handler.Pinger) (*server.Server, error) {
	srv, err := server.Setup(cfg, log)
	if err != nil {
		return nil, err
	}
	srv.SetupRoutes(func(r *openapi.Router) {
		handler.Register(r, handler.Deps{
			DB: db,
			Info: model.VersionInfo{
				Title:       cfg.App.Title,
				Description: cfg.App.Description,
				Version:     cfg.App.Version,
			},
			Operations: srv.Docs(),
		})
	})
	return srv, nil
}
