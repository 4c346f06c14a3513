package generator

// Config drives the synthetic dataset generator.
type Config struct {
	Districts          int
	Owners             int
	MaxDogsPerOwner    int
	MixedBreedChance   float64
	MissingFieldChance float64
	Seed               int64
}

// DefaultConfig returns baseline settings that produce a small but complete
// set of tables with realistic skip rates.
func DefaultConfig() Config {
	return Config{
		Districts:          12,
		Owners:             5000,
		MaxDogsPerOwner:    3,
		MixedBreedChance:   0.20,
		MissingFieldChance: 0.05,
		Seed:               42,
	}
}
