package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/domain"
)

// BreedTraits loads the Kennel Club trait table: one breed per row, the name
// followed by twelve integer scores in fixed column order. Row order is
// preserved. Every trait column is required; a non-numeric score fails the
// load.
func (l *Loader) BreedTraits(r io.Reader) ([]domain.BreedProfile, error) {
	var profiles []domain.BreedProfile

	err := scanTable(r, DatasetBreedTraits, func(line int, fields []string) error {
		if len(fields) < 13 {
			return &MalformedRowError{Dataset: DatasetBreedTraits, Line: line, Field: "record", Err: errTooFewColumns}
		}

		scores := make([]int, 12)
		for i := range scores {
			v, err := strconv.Atoi(strings.TrimSpace(fields[i+1]))
			if err != nil {
				return &MalformedRowError{
					Dataset: DatasetBreedTraits,
					Line:    line,
					Field:   fmt.Sprintf("trait %d", i+1),
					Err:     err,
				}
			}
			scores[i] = v
		}

		profiles = append(profiles, domain.BreedProfile{
			Name:                fields[0],
			AffectionateWFamily: scores[0],
			GoodWYoungChildren:  scores[1],
			GoodWOtherDog:       scores[2],
			SheddingLevel:       scores[3],
			OpennessToStrangers: scores[4],
			Playfulness:         scores[5],
			ProtectiveNature:    scores[6],
			Adaptability:        scores[7],
			Trainability:        scores[8],
			Energy:              scores[9],
			Barking:             scores[10],
			StimulationNeeds:    scores[11],
		})
		l.ingested(DatasetBreedTraits)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
