package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/config"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/export"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/logging"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/server"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The graph database is an optional export target. When configured the
	// health endpoint probes it; the API itself serves from memory.
	var graphClient export.Client
	if cfg.Graph.URI != "" {
		graphClient, err = export.NewNeo4jClient(ctx, export.Options{
			URI:            cfg.Graph.URI,
			Database:       cfg.Graph.Database,
			Username:       cfg.Graph.Username,
			Password:       cfg.Graph.Password,
			MaxConnections: cfg.Graph.MaxConnections,
		})
		if err != nil {
			logger.Error().Err(err).Msg("failed to create graph client")
			os.Exit(1)
		}
		defer func() {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("closing graph client failed")
			}
		}()
	}

	holder := server.NewBundleHolder()
	go assembleDatasets(ctx, logger, cfg, holder)

	apiHandlers := server.NewAPIHandlers(logger, holder)
	router := server.NewRouter(logger, server.RouterDependencies{
		Health:         server.GraphHealthService{Client: graphClient},
		API:            apiHandlers,
		AllowedOrigins: parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		MetricsEnabled: cfg.HTTP.MetricsEnabled,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("server stopped unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// assembleDatasets runs the load pipeline in the background and publishes
// the bundle once it lands. The API answers 503 until then; a failed load
// leaves the server up so /healthz and /metrics stay reachable.
func assembleDatasets(ctx context.Context, logger zerolog.Logger, cfg config.Config, holder *server.BundleHolder) {
	assembler := service.NewAssembler(logger)
	bundle, err := assembler.AssembleDir(ctx, cfg.Data.Dir)
	if err != nil {
		logger.Error().Err(err).Str("dir", cfg.Data.Dir).Msg("dataset assembly failed")
		return
	}
	holder.Set(bundle)
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
