package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		districts     = flag.Int("districts", cfg.Districts, "number of districts to generate")
		owners        = flag.Int("owners", cfg.Owners, "number of dog owners to generate")
		maxDogs       = flag.Int("max-dogs", cfg.MaxDogsPerOwner, "maximum dogs per owner")
		mixedChance   = flag.Float64("mixed-chance", cfg.MixedBreedChance, "probability of a dog being a mixed breed")
		missingChance = flag.Float64("missing-chance", cfg.MissingFieldChance, "probability of a row missing its age range or gender")
		seed          = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir     = flag.String("output-dir", "data", "directory to write the dataset CSV files")
		writeStdout   = flag.Bool("stdout", false, "write the combined dataset to stdout as JSON instead of files")
	)
	flag.Parse()

	genCfg := generator.Config{
		Districts:          *districts,
		Owners:             *owners,
		MaxDogsPerOwner:    *maxDogs,
		MixedBreedChance:   *mixedChance,
		MissingFieldChance: *missingChance,
		Seed:               *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	dataset, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(dataset); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d districts and %d ownership rows into %s\n",
		len(dataset.Districts.Rows), len(dataset.Ownership.Rows), *outputDir)
}
