package dataset

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/domain"
)

// DistrictIndex resolves districts by id or name and owns the closeness
// side-table the distance pipeline fills in later. Districts themselves stay
// immutable values; identity is the numeric id, and when the source lists an
// id twice the last-parsed name wins.
type DistrictIndex struct {
	byID      map[int]domain.District
	byName    map[string]domain.District
	closeness map[int]map[int]float64
}

// ByID returns the district with the given id.
func (idx *DistrictIndex) ByID(id int) (domain.District, bool) {
	d, ok := idx.byID[id]
	return d, ok
}

// ByName returns the district with the given name.
func (idx *DistrictIndex) ByName(name string) (domain.District, bool) {
	d, ok := idx.byName[name]
	return d, ok
}

// All returns every district sorted by id.
func (idx *DistrictIndex) All() []domain.District {
	out := make([]domain.District, 0, len(idx.byID))
	for _, d := range idx.byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of distinct districts.
func (idx *DistrictIndex) Len() int {
	return len(idx.byID)
}

// Districts loads the district table. Column 1 carries the numeric district
// id and column 2 the name; the leading column is a city-level composite key
// the pipeline does not use. Duplicate ids collapse onto one entry.
func (l *Loader) Districts(r io.Reader) (*DistrictIndex, error) {
	idx := &DistrictIndex{
		byID:      make(map[int]domain.District),
		byName:    make(map[string]domain.District),
		closeness: make(map[int]map[int]float64),
	}

	err := scanTable(r, DatasetDistricts, func(line int, fields []string) error {
		if len(fields) < 3 {
			return &MalformedRowError{Dataset: DatasetDistricts, Line: line, Field: "record", Err: errTooFewColumns}
		}
		id, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return &MalformedRowError{Dataset: DatasetDistricts, Line: line, Field: "district id", Err: err}
		}
		idx.byID[id] = domain.District{ID: id, Name: fields[2]}
		l.ingested(DatasetDistricts)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, d := range idx.byID {
		idx.byName[d.Name] = d
	}
	return idx, nil
}
