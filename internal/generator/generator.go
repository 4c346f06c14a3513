package generator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Table is one CSV table ready to be written, header included.
type Table struct {
	Name   string     `json:"name"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Dataset contains the seven generated tables in the layout the loader
// expects.
type Dataset struct {
	Districts    Table `json:"districts"`
	Ownership    Table `json:"ownership"`
	Distances    Table `json:"distances"`
	BreedTraits  Table `json:"breedTraits"`
	Coordinates  Table `json:"coordinates"`
	Translations Table `json:"translations"`
	Images       Table `json:"images"`
}

// Generator produces a synthetic stand-in for the Zurich dog registry
// tables. Output is deterministic for a given seed.
type Generator struct {
	cfg    Config
	rand   *rand.Rand
	breeds []breedSeed
	names  []string
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	// At least two districts, otherwise the distance table is empty and
	// cannot be normalized downstream.
	if cfg.Districts < 2 {
		cfg.Districts = DefaultConfig().Districts
	}
	if cfg.Owners <= 0 {
		cfg.Owners = DefaultConfig().Owners
	}
	if cfg.MaxDogsPerOwner <= 0 {
		cfg.MaxDogsPerOwner = DefaultConfig().MaxDogsPerOwner
	}
	cfg.MixedBreedChance = clampChance(cfg.MixedBreedChance)
	cfg.MissingFieldChance = clampChance(cfg.MissingFieldChance)
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:    cfg,
		rand:   rand.New(rand.NewSource(cfg.Seed)),
		breeds: breedCatalog(),
		names:  districtNames(),
	}
}

// Generate synthesises all seven tables. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	districts := g.generateDistricts()
	coordinates := g.generateCoordinates(districts)
	distances := g.generateDistances(districts)
	traits, translations, images := g.generateBreedTables()

	ownership, err := g.generateOwnership(ctx, districts)
	if err != nil {
		return Dataset{}, err
	}

	return Dataset{
		Districts:    districts,
		Ownership:    ownership,
		Distances:    distances,
		BreedTraits:  traits,
		Coordinates:  coordinates,
		Translations: translations,
		Images:       images,
	}, nil
}

func (g *Generator) generateDistricts() Table {
	t := Table{
		Name:   "districts",
		Header: []string{"composite", "id", "name"},
	}
	for id := 1; id <= g.cfg.Districts; id++ {
		name := g.names[(id-1)%len(g.names)]
		if id > len(g.names) {
			name = fmt.Sprintf("%s %d", name, (id-1)/len(g.names)+1)
		}
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("261%03d", id),
			fmt.Sprintf("%d", id),
			name,
		})
	}
	return t
}

func (g *Generator) generateCoordinates(districts Table) Table {
	t := Table{
		Name:   "district_lat_lng",
		Header: []string{"district", "lat", "lng"},
	}
	// Jittered points inside the city bounding box.
	for _, row := range districts.Rows {
		lat := 47.32 + g.rand.Float64()*0.11
		lng := 8.46 + g.rand.Float64()*0.16
		t.Rows = append(t.Rows, []string{
			row[2],
			fmt.Sprintf("%.6f", lat),
			fmt.Sprintf("%.6f", lng),
		})
	}
	return t
}

func (g *Generator) generateDistances(districts Table) Table {
	t := Table{
		Name:   "distances",
		Header: []string{"district_id", "distances"},
	}

	n := g.cfg.Districts
	km := make(map[int]map[int]float64, n)
	for i := 1; i <= n; i++ {
		km[i] = make(map[int]float64, n-1)
	}
	for i := 1; i <= n; i++ {
		for j := i + 1; j <= n; j++ {
			d := 0.5 + g.rand.Float64()*11.5
			km[i][j] = d
			km[j][i] = d
		}
	}

	for i := 1; i <= n; i++ {
		entries := make([]string, 0, n-1)
		for j := 1; j <= n; j++ {
			if j == i {
				continue
			}
			entries = append(entries, fmt.Sprintf("%d:%.1f", j, km[i][j]))
		}
		t.Rows = append(t.Rows, []string{fmt.Sprintf("%d", i), strings.Join(entries, "|")})
	}
	return t
}

func (g *Generator) generateBreedTables() (traits, translations, images Table) {
	traits = Table{
		Name: "breed_traits",
		Header: []string{
			"breed", "affectionate_w_family", "good_w_young_children",
			"good_w_other_dog", "shedding_level", "openness_to_strangers",
			"playfulness", "protective_nature", "adaptability", "trainability",
			"energy", "barking", "stimulation_needs",
		},
	}
	translations = Table{
		Name:   "breed_translations",
		Header: []string{"german", "english"},
	}
	images = Table{
		Name:   "breed_images",
		Header: []string{"breed", "image_url"},
	}

	for _, b := range g.breeds {
		row := make([]string, 0, 13)
		row = append(row, b.english)
		for i := 0; i < 12; i++ {
			row = append(row, fmt.Sprintf("%d", 1+g.rand.Intn(5)))
		}
		traits.Rows = append(traits.Rows, row)
		translations.Rows = append(translations.Rows, []string{b.german, b.english})
		images.Rows = append(images.Rows, []string{b.english, b.imageURL()})
	}
	return traits, translations, images
}

func (g *Generator) generateOwnership(ctx context.Context, districts Table) (Table, error) {
	t := Table{
		Name: "ownership",
		Header: []string{
			"owner_id", "age_range", "gender", "city_district", "district_id", "breed",
		},
	}

	ageFloors := []int{11, 21, 31, 41, 51, 61, 71}
	genders := []string{"m", "w"}
	mixedNames := []string{"Mischling gross", "Mischling klein"}

	for i := 0; i < g.cfg.Owners; i++ {
		if err := ctx.Err(); err != nil {
			return Table{}, err
		}

		ownerID := fmt.Sprintf("%d", 1000+i)
		lo := ageFloors[g.rand.Intn(len(ageFloors))]
		ageRange := fmt.Sprintf("%d-%d", lo, lo+9)
		gender := genders[g.rand.Intn(len(genders))]
		districtID := districts.Rows[g.rand.Intn(len(districts.Rows))][1]

		dogs := 1 + g.rand.Intn(g.cfg.MaxDogsPerOwner)
		for d := 0; d < dogs; d++ {
			breed := g.breeds[g.rand.Intn(len(g.breeds))].german
			if g.rand.Float64() < g.cfg.MixedBreedChance {
				breed = mixedNames[g.rand.Intn(len(mixedNames))]
			}

			rowAge, rowGender := ageRange, gender
			if g.rand.Float64() < g.cfg.MissingFieldChance {
				if g.rand.Intn(2) == 0 {
					rowAge = ""
				} else {
					rowGender = ""
				}
			}

			t.Rows = append(t.Rows, []string{
				ownerID, rowAge, rowGender, "261", districtID, breed,
			})
		}
	}
	return t, nil
}

func clampChance(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

type breedSeed struct {
	german  string
	english string
}

func (b breedSeed) imageURL() string {
	slug := strings.ToLower(strings.ReplaceAll(b.english, " ", "-"))
	return fmt.Sprintf("https://img.zurichwoof.ch/breeds/%s.jpg", slug)
}

func breedCatalog() []breedSeed {
	return []breedSeed{
		{german: "Labrador", english: "Labrador Retriever"},
		{german: "Pudel", english: "Poodle"},
		{german: "Schäferhund", english: "German Shepherd"},
		{german: "Dackel", english: "Dachshund"},
		{german: "Chihuahua", english: "Chihuahua"},
		{german: "Mops", english: "Pug"},
		{german: "Golden Retriever", english: "Golden Retriever"},
		{german: "Berner Sennenhund", english: "Bernese Mountain Dog"},
		{german: "Zwergspitz", english: "Pomeranian"},
		{german: "Französische Bulldogge", english: "French Bulldog"},
		{german: "Jack Russell Terrier", english: "Jack Russell Terrier"},
		{german: "Border Collie", english: "Border Collie"},
		{german: "Rottweiler", english: "Rottweiler"},
		{german: "Beagle", english: "Beagle"},
		{german: "Malteser", english: "Maltese"},
	}
}

func districtNames() []string {
	return []string{
		"Altstadt", "Seefeld", "Wipkingen", "Oerlikon", "Wiedikon",
		"Aussersihl", "Enge", "Fluntern", "Hottingen", "Albisrieden",
		"Affoltern", "Schwamendingen", "Leimbach", "Witikon", "Unterstrass",
		"Oberstrass", "Höngg", "Altstetten", "Seebach", "Saatlen",
	}
}
