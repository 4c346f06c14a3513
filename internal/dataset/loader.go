// Package dataset parses the seven delimited-text tables behind the breed
// recommendation pipeline and assembles them into graphs, lookup tables and
// trait profiles. Loaders are synchronous single-pass scans; rows that are
// well-formed but unusable are skipped and counted, while a malformed
// required field aborts the load. The distance tables are staged so that
// closeness scores can only be read after raw kilometres have been
// normalized and applied, in that order.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Dataset identifiers used in errors, logs, skip tallies and metrics.
const (
	DatasetDistricts    = "districts"
	DatasetOwnership    = "ownership"
	DatasetDistances    = "distances"
	DatasetBreedTraits  = "breed_traits"
	DatasetCoordinates  = "district_lat_lng"
	DatasetTranslations = "breed_translations"
	DatasetImages       = "breed_images"
)

// Reasons a well-formed row can be skipped without failing the load.
const (
	SkipBlankAgeRange      = "blank_age_range"
	SkipBlankGender        = "blank_gender"
	SkipUnknownDistrict    = "unknown_district"
	SkipMixedBreed         = "mixed_breed"
	SkipUnknownOrigin      = "unknown_origin"
	SkipUnknownDestination = "unknown_destination"
	SkipSelfDistance       = "self_distance"
)

// Default file names inside a dataset directory.
const (
	FileDistricts    = "districts.csv"
	FileOwnership    = "hundehalter.csv"
	FileDistances    = "district_distances.csv"
	FileBreedTraits  = "breed_traits.csv"
	FileCoordinates  = "district_lat_lng.csv"
	FileTranslations = "breed_translations.csv"
	FileImages       = "breed_images.csv"
)

// Metrics receives per-row load observations. The prometheus recorder in
// internal/metrics implements it; tests and the zero-config path use the
// built-in no-op.
type Metrics interface {
	RowIngested(dataset string)
	RowSkipped(dataset, reason string)
}

type nopMetrics struct{}

func (nopMetrics) RowIngested(string)        {}
func (nopMetrics) RowSkipped(string, string) {}

// RowCount tallies how one dataset's rows were treated during a load.
type RowCount struct {
	Ingested int
	Skipped  map[string]int
}

// Loader parses the seven source tables. A Loader accumulates row tallies
// across calls and is not safe for concurrent use; the pipeline runs it on a
// single goroutine.
type Loader struct {
	log     zerolog.Logger
	metrics Metrics
	counts  map[string]*RowCount
}

// NewLoader returns a Loader that logs skip decisions at debug level.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log:     log,
		metrics: nopMetrics{},
		counts:  make(map[string]*RowCount),
	}
}

// WithMetrics attaches a metrics recorder and returns the loader.
func (l *Loader) WithMetrics(m Metrics) *Loader {
	if m != nil {
		l.metrics = m
	}
	return l
}

// Report returns a copy of the per-dataset row tallies accumulated so far.
func (l *Loader) Report() map[string]RowCount {
	out := make(map[string]RowCount, len(l.counts))
	for ds, c := range l.counts {
		skipped := make(map[string]int, len(c.Skipped))
		for reason, n := range c.Skipped {
			skipped[reason] = n
		}
		out[ds] = RowCount{Ingested: c.Ingested, Skipped: skipped}
	}
	return out
}

func (l *Loader) count(ds string) *RowCount {
	c, ok := l.counts[ds]
	if !ok {
		c = &RowCount{Skipped: make(map[string]int)}
		l.counts[ds] = c
	}
	return c
}

func (l *Loader) ingested(ds string) {
	l.count(ds).Ingested++
	l.metrics.RowIngested(ds)
}

func (l *Loader) skip(ds, reason string, line int) {
	l.count(ds).Skipped[reason]++
	l.metrics.RowSkipped(ds, reason)
	l.log.Debug().
		Str("dataset", ds).
		Int("line", line).
		Str("reason", reason).
		Msg("skipped row")
}

// scanTable reads a comma-delimited table, discards the single header row and
// invokes visit for every record with its line number (header is line 1).
// Records may have varying widths; each loader validates the columns it
// needs.
func scanTable(r io.Reader, ds string, visit func(line int, fields []string) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("read %s header: %w", ds, err)
	}

	for line := 2; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s line %d: %w", ds, line, err)
		}
		if err := visit(line, fields); err != nil {
			return err
		}
	}
}
