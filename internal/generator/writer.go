package generator

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/dataset"
)

// WriteDataset serializes the tables into the canonical dataset files under
// the provided directory.
func WriteDataset(ds Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := []struct {
		name  string
		table Table
	}{
		{dataset.FileDistricts, ds.Districts},
		{dataset.FileOwnership, ds.Ownership},
		{dataset.FileDistances, ds.Distances},
		{dataset.FileBreedTraits, ds.BreedTraits},
		{dataset.FileCoordinates, ds.Coordinates},
		{dataset.FileTranslations, ds.Translations},
		{dataset.FileImages, ds.Images},
	}
	for _, f := range files {
		if err := writeCSV(filepath.Join(dir, f.name), f.table); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, t Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("write %s header: %w", path, err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write %s row: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
