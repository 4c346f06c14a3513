package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/domain"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/graph"
)

// Ownership loads the dog registry and builds both ownership graphs: an
// unweighted graph joining each owner to the breeds they keep, and a weighted
// graph counting registered dogs per (district, breed) pair.
//
// Each row names one dog. Rows missing the age range or gender, rows whose
// district id is not in the index, and mixed-breed rows are skipped; a field
// that is present but unparseable fails the load. Owners are created lazily
// on their first usable row with the age range midpoint and that row's
// district, and later rows never alter them. Owning two dogs of one breed
// still yields a single owner-breed edge, while every row increments the
// district count by one.
func (l *Loader) Ownership(r io.Reader, districts *DistrictIndex) (*graph.Graph, *graph.WeightedGraph, error) {
	ownerGraph := graph.NewGraph()
	districtGraph := graph.NewWeightedGraph()
	users := make(map[int]domain.User)

	err := scanTable(r, DatasetOwnership, func(line int, fields []string) error {
		if len(fields) < 6 {
			return &MalformedRowError{Dataset: DatasetOwnership, Line: line, Field: "record", Err: errTooFewColumns}
		}

		userID, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return &MalformedRowError{Dataset: DatasetOwnership, Line: line, Field: "user id", Err: err}
		}

		rawAgeRange := fields[1]
		if strings.TrimSpace(rawAgeRange) == "" {
			l.skip(DatasetOwnership, SkipBlankAgeRange, line)
			return nil
		}

		gender := strings.ToUpper(fields[2])
		if strings.TrimSpace(gender) == "" {
			l.skip(DatasetOwnership, SkipBlankGender, line)
			return nil
		}

		districtID, err := strconv.Atoi(strings.TrimSpace(fields[4]))
		if err != nil {
			return &MalformedRowError{Dataset: DatasetOwnership, Line: line, Field: "district id", Err: err}
		}
		district, ok := districts.ByID(districtID)
		if !ok {
			l.skip(DatasetOwnership, SkipUnknownDistrict, line)
			return nil
		}

		breed := domain.NormalizeBreed(fields[5])
		if breed.IsMixed() {
			l.skip(DatasetOwnership, SkipMixedBreed, line)
			return nil
		}

		age, err := parseAgeRange(rawAgeRange)
		if err != nil {
			return &MalformedRowError{Dataset: DatasetOwnership, Line: line, Field: "age range", Err: err}
		}

		user, ok := users[userID]
		if !ok {
			user = domain.User{ID: userID, Age: age, Gender: gender, DistrictID: district.ID}
			users[userID] = user
			ownerGraph.AddVertex(user)
		}

		ownerGraph.AddVertex(breed)
		if err := ownerGraph.AddEdge(breed, user); err != nil {
			return fmt.Errorf("%s line %d: %w", DatasetOwnership, line, err)
		}

		// The dog counts against the owner's home district, which for a
		// returning owner is the one from their first row. The id always
		// resolves because it was taken from the index.
		ownerDistrict, _ := districts.ByID(user.DistrictID)
		districtGraph.AddVertex(ownerDistrict)
		districtGraph.AddVertex(breed)
		if err := districtGraph.AddWeight(ownerDistrict, breed, 1); err != nil {
			return fmt.Errorf("%s line %d: %w", DatasetOwnership, line, err)
		}

		l.ingested(DatasetOwnership)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return ownerGraph, districtGraph, nil
}

// parseAgeRange turns a "lo-hi" range into its midpoint, rounding down.
func parseAgeRange(raw string) (int, error) {
	parts := strings.Split(raw, "-")
	if len(parts) < 2 {
		return 0, fmt.Errorf("%q is not a lo-hi range", raw)
	}
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, err
	}
	hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, err
	}
	return (lo + hi) / 2, nil
}
