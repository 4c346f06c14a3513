package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestCoordinates_Load(t *testing.T) {
	districts := loadTestDistricts(t)
	input := strings.Join([]string{
		"district,lat,lng",
		"Altstadt,47.3729,8.5417",
		"Seefeld,47.3549,8.5553",
	}, "\n")

	coords, err := newTestLoader().Coordinates(strings.NewReader(input), districts)
	if err != nil {
		t.Fatalf("load coordinates: %v", err)
	}
	if len(coords) != 2 {
		t.Fatalf("expected 2 coordinates, got %d", len(coords))
	}
	altstadt := coords[1]
	if altstadt.Lat != 47.3729 || altstadt.Lng != 8.5417 {
		t.Fatalf("expected Altstadt keyed by its district id, got %+v", altstadt)
	}
}

func TestCoordinates_UnknownDistrictNameFailsLoad(t *testing.T) {
	districts := loadTestDistricts(t)
	input := strings.Join([]string{
		"district,lat,lng",
		"Altstadt,47.3729,8.5417",
		"Atlantis,0.0,0.0",
	}, "\n")

	_, err := newTestLoader().Coordinates(strings.NewReader(input), districts)
	if err == nil {
		t.Fatal("expected load to fail")
	}
	var unresolved *UnresolvedKeyError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedKeyError, got %T: %v", err, err)
	}
	if unresolved.Key != "Atlantis" || unresolved.Line != 3 {
		t.Fatalf("expected Atlantis on line 3, got %q on line %d", unresolved.Key, unresolved.Line)
	}
}

func TestCoordinates_MalformedValueFailsLoad(t *testing.T) {
	districts := loadTestDistricts(t)
	cases := []struct {
		name  string
		row   string
		field string
	}{
		{"latitude", "Altstadt,north,8.5417", "latitude"},
		{"longitude", "Altstadt,47.3729,east", "longitude"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := "district,lat,lng\n" + tc.row
			_, err := newTestLoader().Coordinates(strings.NewReader(input), districts)
			if err == nil {
				t.Fatal("expected load to fail")
			}
			var malformed *MalformedRowError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedRowError, got %T: %v", err, err)
			}
			if malformed.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, malformed.Field)
			}
		})
	}
}

func TestTranslations_AcceptsUnknownBreeds(t *testing.T) {
	input := strings.Join([]string{
		"german,english",
		"Labrador,Labrador Retriever",
		"Pudel,Poodle",
		"Schattenwolf,Direwolf",
	}, "\n")

	translations, err := newTestLoader().Translations(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load translations: %v", err)
	}
	if len(translations) != 3 {
		t.Fatalf("expected 3 translations, got %d", len(translations))
	}
	if translations["Pudel"] != "Poodle" {
		t.Fatalf("expected the German name to key its English form, got %q", translations["Pudel"])
	}
	if translations["Schattenwolf"] != "Direwolf" {
		t.Fatalf("expected unvalidated keys to load, got %q", translations["Schattenwolf"])
	}
}

func TestBreedImages_Load(t *testing.T) {
	input := strings.Join([]string{
		"breed,image_url",
		"Labrador,https://img.example.com/labrador.jpg",
	}, "\n")

	images, err := newTestLoader().BreedImages(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load images: %v", err)
	}
	if images["Labrador"] != "https://img.example.com/labrador.jpg" {
		t.Fatalf("expected image url, got %q", images["Labrador"])
	}
}

func TestMapping_TooFewColumnsFailsLoad(t *testing.T) {
	input := "breed,image_url\nLabrador"

	_, err := newTestLoader().BreedImages(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected load to fail")
	}
	if !errors.Is(err, errTooFewColumns) {
		t.Fatalf("expected a too few columns cause, got %v", err)
	}
}

func TestLoader_ReportAccumulatesAcrossDatasets(t *testing.T) {
	l := NewLoader(zerolog.Nop())
	districts, err := l.Districts(strings.NewReader("composite,id,name\n261011,1,Altstadt\n"))
	if err != nil {
		t.Fatalf("load districts: %v", err)
	}
	ownership := strings.Join([]string{
		ownershipHeader,
		"1,21-30,m,1,1,Labrador",
		"2,21-30,m,1,99,Labrador",
	}, "\n")
	if _, _, err := l.Ownership(strings.NewReader(ownership), districts); err != nil {
		t.Fatalf("load ownership: %v", err)
	}

	report := l.Report()
	if report[DatasetDistricts].Ingested != 1 {
		t.Fatalf("expected 1 district ingested, got %+v", report[DatasetDistricts])
	}
	owned := report[DatasetOwnership]
	if owned.Ingested != 1 || owned.Skipped[SkipUnknownDistrict] != 1 {
		t.Fatalf("expected 1 ingested and 1 skipped ownership row, got %+v", owned)
	}

	report[DatasetOwnership].Skipped[SkipUnknownDistrict] = 99
	if l.Report()[DatasetOwnership].Skipped[SkipUnknownDistrict] != 1 {
		t.Fatal("expected Report to return an independent copy")
	}
}
