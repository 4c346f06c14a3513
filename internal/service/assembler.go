// Package service assembles the Zurich dog datasets into the in-memory
// bundle the rest of the application works with: the district index with
// resolved closeness scores, the two ownership graphs and the breed
// reference mappings.
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/dataset"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/domain"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/graph"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/metrics"
)

// Sources holds one reader per dataset. Every field must be set.
type Sources struct {
	Districts    io.Reader
	Ownership    io.Reader
	Distances    io.Reader
	BreedTraits  io.Reader
	Coordinates  io.Reader
	Translations io.Reader
	Images       io.Reader
}

func (s Sources) validate() error {
	checks := []struct {
		name string
		r    io.Reader
	}{
		{dataset.DatasetDistricts, s.Districts},
		{dataset.DatasetOwnership, s.Ownership},
		{dataset.DatasetDistances, s.Distances},
		{dataset.DatasetBreedTraits, s.BreedTraits},
		{dataset.DatasetCoordinates, s.Coordinates},
		{dataset.DatasetTranslations, s.Translations},
		{dataset.DatasetImages, s.Images},
	}
	for _, c := range checks {
		if c.r == nil {
			return fmt.Errorf("missing %s source", c.name)
		}
	}
	return nil
}

// OpenDir opens the seven conventionally named CSV files under dir. The
// returned closer releases all of them and must be called once the
// assembly is done with the readers.
func OpenDir(dir string) (Sources, io.Closer, error) {
	var src Sources
	var files multiCloser
	wanted := []struct {
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
	for _, w := range wanted {
		f, err := os.Open(filepath.Join(dir, w.name))
		if err != nil {
			files.Close()
			return Sources{}, nil, fmt.Errorf("open dataset: %w", err)
		}
		files = append(files, f)
		*w.dst = f
	}
	return src, files, nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// DatasetStats reports how one dataset's rows were treated and how long the
// load took.
type DatasetStats struct {
	Ingested int
	Skipped  map[string]int
	Duration time.Duration
}

// LoadStats summarizes one assembly run.
type LoadStats struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	Duration   time.Duration
	PerDataset map[string]DatasetStats
}

// Bundle is the immutable result of a complete assembly: everything the
// export and HTTP read surfaces need.
type Bundle struct {
	Districts    *dataset.DistrictIndex
	Resolved     dataset.ResolvedDistricts
	Coordinates  map[int]domain.Coordinate
	Owners       *graph.Graph
	Popularity   *graph.WeightedGraph
	Profiles     []domain.BreedProfile
	Translations map[string]string
	Images       map[string]string
	Stats        LoadStats
}

// Assembler runs the dataset loads in their required order and produces a
// Bundle.
type Assembler struct {
	log   zerolog.Logger
	nowFn func() time.Time
}

// NewAssembler constructs an Assembler logging through the provided logger.
func NewAssembler(log zerolog.Logger) *Assembler {
	return &Assembler{log: log, nowFn: time.Now}
}

// WithClock overrides the time provider (used primarily in tests).
func (a *Assembler) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		a.nowFn = nowFn
	}
}

// AssembleDir assembles from the seven conventionally named CSV files under
// dir.
func (a *Assembler) AssembleDir(ctx context.Context, dir string) (*Bundle, error) {
	src, closer, err := OpenDir(dir)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return a.Assemble(ctx, src)
}

// Assemble loads every dataset in order: districts first, distances with
// their normalization, then ownership, traits and the reference mappings.
// The first failing dataset aborts the run with the dataset named in the
// returned error.
func (a *Assembler) Assemble(ctx context.Context, src Sources) (*Bundle, error) {
	started := a.nowFn()
	bundle, err := a.assemble(ctx, src, started)
	metrics.RecordAssembly(a.nowFn().Sub(started), err)
	if err != nil {
		return nil, err
	}
	return bundle, nil
}

func (a *Assembler) assemble(ctx context.Context, src Sources, started time.Time) (*Bundle, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}

	runID := uuid.New()
	log := a.log.With().Str("run_id", runID.String()).Logger()
	loader := dataset.NewLoader(log).WithMetrics(metrics.Recorder{})

	durations := make(map[string]time.Duration, 7)
	step := func(ds string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := a.nowFn()
		if err := fn(); err != nil {
			return fmt.Errorf("load %s: %w", ds, err)
		}
		d := a.nowFn().Sub(start)
		durations[ds] = d
		metrics.ObserveLoad(ds, d)
		return nil
	}

	var (
		districts    *dataset.DistrictIndex
		rawDistances dataset.RawDistanceTable
		owners       *graph.Graph
		popularity   *graph.WeightedGraph
		profiles     []domain.BreedProfile
		coordinates  map[int]domain.Coordinate
		translations map[string]string
		images       map[string]string
	)

	if err := step(dataset.DatasetDistricts, func() (err error) {
		districts, err = loader.Districts(src.Districts)
		return err
	}); err != nil {
		return nil, err
	}

	if err := step(dataset.DatasetDistances, func() (err error) {
		rawDistances, err = loader.Distances(src.Distances, districts)
		return err
	}); err != nil {
		return nil, err
	}

	closeness, err := rawDistances.Normalize()
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", dataset.DatasetDistances, err)
	}
	resolved := districts.ApplyCloseness(closeness)

	if err := step(dataset.DatasetOwnership, func() (err error) {
		owners, popularity, err = loader.Ownership(src.Ownership, districts)
		return err
	}); err != nil {
		return nil, err
	}

	if err := step(dataset.DatasetBreedTraits, func() (err error) {
		profiles, err = loader.BreedTraits(src.BreedTraits)
		return err
	}); err != nil {
		return nil, err
	}

	if err := step(dataset.DatasetCoordinates, func() (err error) {
		coordinates, err = loader.Coordinates(src.Coordinates, districts)
		return err
	}); err != nil {
		return nil, err
	}

	if err := step(dataset.DatasetTranslations, func() (err error) {
		translations, err = loader.Translations(src.Translations)
		return err
	}); err != nil {
		return nil, err
	}

	if err := step(dataset.DatasetImages, func() (err error) {
		images, err = loader.BreedImages(src.Images)
		return err
	}); err != nil {
		return nil, err
	}

	report := loader.Report()
	perDataset := make(map[string]DatasetStats, len(durations))
	for ds, d := range durations {
		rc := report[ds]
		perDataset[ds] = DatasetStats{Ingested: rc.Ingested, Skipped: rc.Skipped, Duration: d}
	}

	stats := LoadStats{
		RunID:      runID,
		StartedAt:  started,
		Duration:   a.nowFn().Sub(started),
		PerDataset: perDataset,
	}

	metrics.SetGraphSize("ownership", owners.VertexCount(), owners.EdgeCount())
	metrics.SetGraphSize("district_popularity", popularity.VertexCount(), popularity.EdgeCount())

	log.Info().
		Int("districts", districts.Len()).
		Int("closeness_pairs", len(resolved.Pairs())).
		Int("owner_vertices", owners.VertexCount()).
		Int("owner_edges", owners.EdgeCount()).
		Int("popularity_vertices", popularity.VertexCount()).
		Int("popularity_edges", popularity.EdgeCount()).
		Int("breed_profiles", len(profiles)).
		Dur("duration", stats.Duration).
		Msg("dataset assembly complete")

	return &Bundle{
		Districts:    districts,
		Resolved:     resolved,
		Coordinates:  coordinates,
		Owners:       owners,
		Popularity:   popularity,
		Profiles:     profiles,
		Translations: translations,
		Images:       images,
		Stats:        stats,
	}, nil
}
