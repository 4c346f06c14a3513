package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/config"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/dataset"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/export"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/logging"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/service"
)

func main() {
	var (
		dataDir  = flag.String("data-dir", "", "Directory containing the dataset CSV files (defaults to DATA_DIR)")
		doExport = flag.Bool("export", false, "Push the assembled graphs to the configured graph database")
		dump     = flag.Bool("dump", false, "Print a JSON load summary to stdout")
		workers  = flag.Int("workers", 0, "Number of concurrent export workers (defaults to EXPORT_WORKERS)")

		districtsPath    = flag.String("districts", "", "Path to the districts file (overrides data-dir)")
		ownershipPath    = flag.String("ownership", "", "Path to the dog registry file (overrides data-dir)")
		distancesPath    = flag.String("distances", "", "Path to the district distances file (overrides data-dir)")
		traitsPath       = flag.String("traits", "", "Path to the breed traits file (overrides data-dir)")
		coordinatesPath  = flag.String("coordinates", "", "Path to the district coordinates file (overrides data-dir)")
		translationsPath = flag.String("translations", "", "Path to the breed translations file (overrides data-dir)")
		imagesPath       = flag.String("images", "", "Path to the breed images file (overrides data-dir)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With().Str("component", "loader").Logger()

	dir := *dataDir
	if dir == "" {
		dir = cfg.Data.Dir
	}
	overrides := map[string]string{
		dataset.FileDistricts:    *districtsPath,
		dataset.FileOwnership:    *ownershipPath,
		dataset.FileDistances:    *distancesPath,
		dataset.FileBreedTraits:  *traitsPath,
		dataset.FileCoordinates:  *coordinatesPath,
		dataset.FileTranslations: *translationsPath,
		dataset.FileImages:       *imagesPath,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src, closeSources, err := openSources(dir, overrides)
	if err != nil {
		logger.Error().Err(err).Str("dir", dir).Msg("dataset resolution failed")
		os.Exit(1)
	}

	assembler := service.NewAssembler(logger)
	bundle, err := assembler.Assemble(ctx, src)
	closeSources()
	if err != nil {
		logger.Error().Err(err).Msg("dataset assembly failed")
		os.Exit(1)
	}

	if *dump {
		if err := printSummary(bundle); err != nil {
			logger.Error().Err(err).Msg("failed to write summary")
			os.Exit(1)
		}
	}

	if !*doExport {
		return
	}

	client, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create graph client")
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("closing graph client failed")
		}
	}()

	exportWorkers := *workers
	if exportWorkers <= 0 {
		exportWorkers = cfg.Export.Workers
	}

	exporter := export.New(client, logger, exportWorkers, cfg.Export.BatchSize)
	stats, err := exporter.Export(ctx, export.Input{
		Districts:    bundle.Districts.All(),
		Coordinates:  bundle.Coordinates,
		Closeness:    bundle.Resolved.Pairs(),
		Owners:       bundle.Owners,
		Popularity:   bundle.Popularity,
		Profiles:     bundle.Profiles,
		Translations: bundle.Translations,
		Images:       bundle.Images,
	})
	if err != nil {
		logger.Error().Err(err).Msg("graph export failed")
		os.Exit(1)
	}

	logger.Info().
		Int("districts", stats.Districts).
		Int("owners", stats.Owners).
		Int("breeds", stats.Breeds).
		Int("owns_edges", stats.Owns).
		Int("popularity_edges", stats.Popularity).
		Int("closeness_edges", stats.Closeness).
		Dur("duration", stats.Duration).
		Msg("graph export complete")
}

// openSources opens the seven dataset files, taking each file either from
// its override path or from the base directory.
func openSources(dir string, overrides map[string]string) (service.Sources, func(), error) {
	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	open := func(name string) (*os.File, error) {
		path := overrides[name]
		if path == "" {
			path = filepath.Join(dir, name)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		files = append(files, f)
		return f, nil
	}

	var src service.Sources
	table := []struct {
		name string
		dst  *io.Reader
	}{
		{dataset.FileDistricts, &src.Districts},
		{dataset.FileOwnership, &src.Ownership},
		{dataset.FileDistances, &src.Distances},
		{dataset.FileBreedTraits, &src.BreedTraits},
		{dataset.FileCoordinates, &src.Coordinates},
		{dataset.FileTranslations, &src.Translations},
		{dataset.FileImages, &src.Images},
	}
	for _, entry := range table {
		f, err := open(entry.name)
		if err != nil {
			closeAll()
			return service.Sources{}, nil, err
		}
		*entry.dst = f
	}
	return src, closeAll, nil
}

func printSummary(bundle *service.Bundle) error {
	type graphSize struct {
		Vertices int `json:"vertices"`
		Edges    int `json:"edges"`
	}
	type datasetStats struct {
		Ingested int            `json:"ingested"`
		Skipped  map[string]int `json:"skipped,omitempty"`
	}

	out := struct {
		RunID      string                  `json:"runId"`
		Districts  int                     `json:"districts"`
		Datasets   map[string]datasetStats `json:"datasets"`
		Ownership  graphSize               `json:"ownership"`
		Popularity graphSize               `json:"districtPopularity"`
	}{
		RunID:     bundle.Stats.RunID.String(),
		Districts: bundle.Districts.Len(),
		Datasets:  make(map[string]datasetStats, len(bundle.Stats.PerDataset)),
		Ownership: graphSize{
			Vertices: bundle.Owners.VertexCount(),
			Edges:    bundle.Owners.EdgeCount(),
		},
		Popularity: graphSize{
			Vertices: bundle.Popularity.VertexCount(),
			Edges:    bundle.Popularity.EdgeCount(),
		},
	}
	for ds, s := range bundle.Stats.PerDataset {
		out.Datasets[ds] = datasetStats{Ingested: s.Ingested, Skipped: s.Skipped}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func buildGraphClient(ctx context.Context, logger zerolog.Logger, cfg config.Config) (export.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for export")
	}
	opts := export.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := export.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.VerifyConnectivity(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}
	logger.Info().Str("uri", cfg.Graph.URI).Str("database", cfg.Graph.Database).Msg("connected to graph")
	return client, nil
}
