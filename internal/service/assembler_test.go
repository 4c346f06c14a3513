package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/dataset"
)

const (
	districtsCSV = "composite,id,name\n" +
		"261011,1,Altstadt\n" +
		"261021,2,Seefeld\n" +
		"261031,3,Wipkingen\n"

	distancesCSV = "district_id,distances\n" +
		"1,2:2.0|3:10.0\n" +
		"2,3:6.0\n"

	ownershipCSV = "owner_id,age_range,gender,city_district,district_id,breed\n" +
		"10,21-30,w,261,1,Labrador\n" +
		"11,41-50,m,261,2,Pudel\n" +
		"12,,m,261,1,Labrador\n" +
		"13,31-40,m,261,1,Mischling gross\n" +
		"10,21-30,w,261,2,Pudel\n"

	traitsCSV = "breed,affectionate_w_family,good_w_young_children,good_w_other_dog," +
		"shedding_level,openness_to_strangers,playfulness,protective_nature," +
		"adaptability,trainability,energy,barking,stimulation_needs\n" +
		"Labrador Retriever,5,5,5,4,5,5,3,5,5,5,3,5\n"

	coordinatesCSV = "district,lat,lng\n" +
		"Altstadt,47.3729,8.5417\n"

	translationsCSV = "german,english\n" +
		"Labrador,Labrador Retriever\n"

	imagesCSV = "breed,image_url\n" +
		"Labrador Retriever,https://img.zurichwoof.ch/labrador.jpg\n"
)

func testSources() Sources {
	return Sources{
		Districts:    strings.NewReader(districtsCSV),
		Ownership:    strings.NewReader(ownershipCSV),
		Distances:    strings.NewReader(distancesCSV),
		BreedTraits:  strings.NewReader(traitsCSV),
		Coordinates:  strings.NewReader(coordinatesCSV),
		Translations: strings.NewReader(translationsCSV),
		Images:       strings.NewReader(imagesCSV),
	}
}

func newTestAssembler() *Assembler {
	return NewAssembler(zerolog.Nop())
}

func TestAssembler_BuildsCompleteBundle(t *testing.T) {
	bundle, err := newTestAssembler().Assemble(context.Background(), testSources())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	if bundle.Districts.Len() != 3 {
		t.Fatalf("expected 3 districts, got %d", bundle.Districts.Len())
	}

	// Distances 2km..10km rescale linearly onto closeness 1..0.
	if score, ok := bundle.Resolved.Closeness(1, 2); !ok || score != 1.0 {
		t.Fatalf("expected closeness 1->2 to be 1.0, got %f ok=%v", score, ok)
	}
	if score, ok := bundle.Resolved.Closeness(1, 3); !ok || score != 0.0 {
		t.Fatalf("expected closeness 1->3 to be 0.0, got %f ok=%v", score, ok)
	}
	if score, ok := bundle.Resolved.Closeness(2, 3); !ok || score != 0.5 {
		t.Fatalf("expected closeness 2->3 to be 0.5, got %f ok=%v", score, ok)
	}

	if !bundle.Owners.HasEdge("user:10", "breed:Labrador") {
		t.Fatal("expected user 10 to own a Labrador")
	}
	if !bundle.Owners.HasEdge("user:10", "breed:Pudel") {
		t.Fatal("expected user 10 to own a Pudel")
	}
	if !bundle.Owners.HasEdge("user:11", "breed:Pudel") {
		t.Fatal("expected user 11 to own a Pudel")
	}
	if bundle.Owners.HasVertex("user:12") || bundle.Owners.HasVertex("user:13") {
		t.Fatal("skipped rows must not create owners")
	}

	// User 10's second dog counts against the district from their first row.
	if w := bundle.Popularity.Weight("district:1", "breed:Pudel"); w != 1 {
		t.Fatalf("expected Pudel weight 1 in district 1, got %f", w)
	}
	if w := bundle.Popularity.Weight("district:1", "breed:Labrador"); w != 1 {
		t.Fatalf("expected Labrador weight 1 in district 1, got %f", w)
	}
	if w := bundle.Popularity.Weight("district:2", "breed:Pudel"); w != 1 {
		t.Fatalf("expected Pudel weight 1 in district 2, got %f", w)
	}

	if len(bundle.Profiles) != 1 || bundle.Profiles[0].Name != "Labrador Retriever" {
		t.Fatalf("expected the Labrador Retriever profile, got %+v", bundle.Profiles)
	}
	if c := bundle.Coordinates[1]; c.Lat != 47.3729 || c.Lng != 8.5417 {
		t.Fatalf("expected Altstadt coordinates, got %+v", c)
	}
	if bundle.Translations["Labrador"] != "Labrador Retriever" {
		t.Fatalf("expected the Labrador translation, got %q", bundle.Translations["Labrador"])
	}
	if bundle.Images["Labrador Retriever"] == "" {
		t.Fatal("expected an image for Labrador Retriever")
	}
}

func TestAssembler_StatsCoverEveryDataset(t *testing.T) {
	asm := newTestAssembler()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	asm.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})

	bundle, err := asm.Assemble(context.Background(), testSources())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	stats := bundle.Stats
	if stats.RunID == uuid.Nil {
		t.Fatal("expected a run id")
	}
	if !stats.StartedAt.Equal(base.Add(time.Second)) {
		t.Fatalf("expected start at first clock read, got %s", stats.StartedAt)
	}
	if stats.Duration <= 0 {
		t.Fatalf("expected a positive duration, got %s", stats.Duration)
	}
	if len(stats.PerDataset) != 7 {
		t.Fatalf("expected stats for 7 datasets, got %d", len(stats.PerDataset))
	}

	owned := stats.PerDataset[dataset.DatasetOwnership]
	if owned.Ingested != 3 {
		t.Fatalf("expected 3 ownership rows ingested, got %d", owned.Ingested)
	}
	if owned.Skipped[dataset.SkipBlankAgeRange] != 1 || owned.Skipped[dataset.SkipMixedBreed] != 1 {
		t.Fatalf("expected one blank-age and one mixed skip, got %+v", owned.Skipped)
	}
	if owned.Duration <= 0 {
		t.Fatalf("expected a positive ownership load duration, got %s", owned.Duration)
	}
}

func TestAssembler_FailsFastOnMalformedDataset(t *testing.T) {
	src := testSources()
	src.Ownership = strings.NewReader(
		"owner_id,age_range,gender,city_district,district_id,breed\n" +
			"x,21-30,m,261,1,Labrador\n")

	bundle, err := newTestAssembler().Assemble(context.Background(), src)
	if err == nil {
		t.Fatal("expected assembly to fail")
	}
	if bundle != nil {
		t.Fatal("expected no bundle on failure")
	}
	if !strings.Contains(err.Error(), "load ownership") {
		t.Fatalf("expected the failing dataset to be named, got %v", err)
	}
	var malformed *dataset.MalformedRowError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRowError, got %T: %v", err, err)
	}
}

func TestAssembler_NormalizeFailureNamesDistances(t *testing.T) {
	src := testSources()
	src.Distances = strings.NewReader("district_id,distances\n1,2:0.0\n")

	_, err := newTestAssembler().Assemble(context.Background(), src)
	if err == nil {
		t.Fatal("expected assembly to fail")
	}
	if !strings.Contains(err.Error(), "normalize distances") {
		t.Fatalf("expected the normalize step to be named, got %v", err)
	}
	var degenerate *dataset.DegenerateDatasetError
	if !errors.As(err, &degenerate) {
		t.Fatalf("expected DegenerateDatasetError, got %T: %v", err, err)
	}
}

func TestAssembler_RejectsMissingSource(t *testing.T) {
	src := testSources()
	src.Images = nil

	_, err := newTestAssembler().Assemble(context.Background(), src)
	if err == nil {
		t.Fatal("expected assembly to fail")
	}
	if !strings.Contains(err.Error(), "missing breed_images source") {
		t.Fatalf("expected the missing source to be named, got %v", err)
	}
}

func TestAssembler_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAssembler().Assemble(ctx, testSources())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func writeDatasetDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		dataset.FileDistricts:    districtsCSV,
		dataset.FileOwnership:    ownershipCSV,
		dataset.FileDistances:    distancesCSV,
		dataset.FileBreedTraits:  traitsCSV,
		dataset.FileCoordinates:  coordinatesCSV,
		dataset.FileTranslations: translationsCSV,
		dataset.FileImages:       imagesCSV,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestAssembler_AssembleDir(t *testing.T) {
	dir := writeDatasetDir(t)

	bundle, err := newTestAssembler().AssembleDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("assemble dir: %v", err)
	}
	if bundle.Districts.Len() != 3 {
		t.Fatalf("expected 3 districts, got %d", bundle.Districts.Len())
	}
	if score, ok := bundle.Resolved.Closeness(2, 3); !ok || score != 0.5 {
		t.Fatalf("expected closeness 2->3 to be 0.5, got %f ok=%v", score, ok)
	}
}

func TestAssembler_AssembleDirMissingFile(t *testing.T) {
	dir := writeDatasetDir(t)
	if err := os.Remove(filepath.Join(dir, dataset.FileTranslations)); err != nil {
		t.Fatalf("remove file: %v", err)
	}

	_, err := newTestAssembler().AssembleDir(context.Background(), dir)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected a not-exist error, got %v", err)
	}
}
