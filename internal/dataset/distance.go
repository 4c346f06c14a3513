package dataset

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// RawDistanceTable holds pairwise district distances in kilometres, keyed by
// origin then destination id. Raw values are not comparable across pairs;
// Normalize converts the whole table into closeness scores in one shot.
type RawDistanceTable map[int]map[int]float64

// ClosenessTable holds normalized closeness scores in [0,1], where 1 marks
// the closest pair in the dataset and 0 the farthest. The only way to obtain
// one is Normalize, and no operation rescales it again, so double
// normalization is unrepresentable.
type ClosenessTable struct {
	scores map[int]map[int]float64
}

// ClosenessPair is one scored origin-destination pair.
type ClosenessPair struct {
	OriginID      int
	DestinationID int
	Score         float64
}

// ResolvedDistricts proves that closeness scores were normalized and applied
// to the index, and is the only handle through which they can be read.
// Consumers that take a ResolvedDistricts therefore cannot run ahead of the
// distance pipeline.
type ResolvedDistricts struct {
	idx *DistrictIndex
}

// Distances loads the pairwise distance table. Column 0 is the origin
// district id and column 1 packs "destination:km" entries separated by pipes.
// Rows for unknown origins are skipped, as are entries pointing at unknown
// districts or back at the origin, so the table never contains a self pair.
// A repeated origin row replaces the earlier one.
func (l *Loader) Distances(r io.Reader, districts *DistrictIndex) (RawDistanceTable, error) {
	table := make(RawDistanceTable)

	err := scanTable(r, DatasetDistances, func(line int, fields []string) error {
		if len(fields) < 2 {
			return &MalformedRowError{Dataset: DatasetDistances, Line: line, Field: "record", Err: errTooFewColumns}
		}
		originID, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return &MalformedRowError{Dataset: DatasetDistances, Line: line, Field: "origin id", Err: err}
		}
		if _, ok := districts.ByID(originID); !ok {
			l.skip(DatasetDistances, SkipUnknownOrigin, line)
			return nil
		}

		entries := strings.Split(fields[1], "|")
		distances := make(map[int]float64, len(entries))
		for _, entry := range entries {
			destPart, kmPart, ok := strings.Cut(entry, ":")
			if !ok {
				return &MalformedRowError{
					Dataset: DatasetDistances,
					Line:    line,
					Field:   "distance entry",
					Err:     fmt.Errorf("%q is not a destination:km pair", entry),
				}
			}
			destID, err := strconv.Atoi(strings.TrimSpace(destPart))
			if err != nil {
				return &MalformedRowError{Dataset: DatasetDistances, Line: line, Field: "destination id", Err: err}
			}
			km, err := strconv.ParseFloat(strings.TrimSpace(kmPart), 64)
			if err != nil {
				return &MalformedRowError{Dataset: DatasetDistances, Line: line, Field: "distance", Err: err}
			}
			if _, ok := districts.ByID(destID); !ok {
				l.skip(DatasetDistances, SkipUnknownDestination, line)
				continue
			}
			if destID == originID {
				l.skip(DatasetDistances, SkipSelfDistance, line)
				continue
			}
			distances[destID] = km
		}

		table[originID] = distances
		l.ingested(DatasetDistances)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// Normalize rescales every distance to a closeness score: the global minimum
// maps to 1.0, the global maximum to 0.0, everything else linearly between.
// When all distances are equal every pair scores 1.0. A table whose maximum
// is zero cannot be normalized and yields a DegenerateDatasetError.
func (t RawDistanceTable) Normalize() (ClosenessTable, error) {
	minKm := math.Inf(1)
	maxKm := 0.0
	for origin, dests := range t {
		for dest, km := range dests {
			if origin == dest {
				return ClosenessTable{}, fmt.Errorf("distance table holds a self pair for district %d", origin)
			}
			minKm = math.Min(minKm, km)
			maxKm = math.Max(maxKm, km)
		}
	}
	if maxKm == 0 {
		return ClosenessTable{}, &DegenerateDatasetError{Dataset: DatasetDistances}
	}

	span := maxKm - minKm
	scores := make(map[int]map[int]float64, len(t))
	for origin, dests := range t {
		row := make(map[int]float64, len(dests))
		for dest, km := range dests {
			if span == 0 {
				row[dest] = 1.0
				continue
			}
			row[dest] = 1 - (km-minKm)/span
		}
		scores[origin] = row
	}
	return ClosenessTable{scores: scores}, nil
}

// Score returns the closeness between two districts, false when the pair was
// not in the distance data.
func (t ClosenessTable) Score(originID, destID int) (float64, bool) {
	s, ok := t.scores[originID][destID]
	return s, ok
}

// Pairs returns every scored pair ordered by origin then destination id.
func (t ClosenessTable) Pairs() []ClosenessPair {
	return collectPairs(t.scores)
}

// ApplyCloseness copies the scores onto the index's closeness side-table and
// returns the read token. Districts themselves are untouched.
func (idx *DistrictIndex) ApplyCloseness(t ClosenessTable) ResolvedDistricts {
	for origin, dests := range t.scores {
		row := make(map[int]float64, len(dests))
		for dest, score := range dests {
			row[dest] = score
		}
		idx.closeness[origin] = row
	}
	return ResolvedDistricts{idx: idx}
}

// Closeness returns the applied closeness between two districts, false when
// the pair is unknown or the token is the zero value.
func (r ResolvedDistricts) Closeness(originID, destID int) (float64, bool) {
	if r.idx == nil {
		return 0, false
	}
	s, ok := r.idx.closeness[originID][destID]
	return s, ok
}

// Pairs returns every applied pair ordered by origin then destination id.
func (r ResolvedDistricts) Pairs() []ClosenessPair {
	if r.idx == nil {
		return nil
	}
	return collectPairs(r.idx.closeness)
}

func collectPairs(scores map[int]map[int]float64) []ClosenessPair {
	var out []ClosenessPair
	for origin, dests := range scores {
		for dest, score := range dests {
			out = append(out, ClosenessPair{OriginID: origin, DestinationID: dest, Score: score})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OriginID != out[j].OriginID {
			return out[i].OriginID < out[j].OriginID
		}
		return out[i].DestinationID < out[j].DestinationID
	})
	return out
}
