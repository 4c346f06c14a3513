package dataset

import (
	"io"
	"strconv"
	"strings"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/domain"
)

// KeyPolicy controls how a mapping loader treats keys that do not resolve.
// Coordinates are strict because later stages trust them blindly, while
// translations and images may carry entries for breeds the ownership data
// never mentions.
type KeyPolicy int

const (
	// PermissiveKeys accepts every key as-is.
	PermissiveKeys KeyPolicy = iota
	// StrictKeys fails the load on the first key that does not resolve.
	StrictKeys
)

// mapping is the shared scan for the key-value style tables. Column 0 is the
// key; resolve, when non-nil, decides whether the key is known, and the
// policy decides what an unknown key means. The remaining columns go to
// visit untouched.
func (l *Loader) mapping(r io.Reader, ds string, policy KeyPolicy, resolve func(string) bool, visit func(line int, key string, rest []string) error) error {
	return scanTable(r, ds, func(line int, fields []string) error {
		if len(fields) < 2 {
			return &MalformedRowError{Dataset: ds, Line: line, Field: "record", Err: errTooFewColumns}
		}
		key := fields[0]
		if resolve != nil && !resolve(key) && policy == StrictKeys {
			return &UnresolvedKeyError{Dataset: ds, Line: line, Key: key}
		}
		return visit(line, key, fields[1:])
	})
}

// Coordinates loads district centre coordinates, keyed by district name in
// the file and resolved strictly against the index: a name the district
// table never introduced fails the load.
func (l *Loader) Coordinates(r io.Reader, districts *DistrictIndex) (map[int]domain.Coordinate, error) {
	out := make(map[int]domain.Coordinate)

	resolve := func(name string) bool {
		_, ok := districts.ByName(name)
		return ok
	}
	err := l.mapping(r, DatasetCoordinates, StrictKeys, resolve, func(line int, key string, rest []string) error {
		if len(rest) < 2 {
			return &MalformedRowError{Dataset: DatasetCoordinates, Line: line, Field: "record", Err: errTooFewColumns}
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(rest[0]), 64)
		if err != nil {
			return &MalformedRowError{Dataset: DatasetCoordinates, Line: line, Field: "latitude", Err: err}
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(rest[1]), 64)
		if err != nil {
			return &MalformedRowError{Dataset: DatasetCoordinates, Line: line, Field: "longitude", Err: err}
		}
		district, _ := districts.ByName(key)
		out[district.ID] = domain.Coordinate{Lat: lat, Lng: lng}
		l.ingested(DatasetCoordinates)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Translations loads the source-language to target-language breed name
// mapping. Keys are not validated against any other dataset.
func (l *Loader) Translations(r io.Reader) (map[string]string, error) {
	return l.keyValue(r, DatasetTranslations)
}

// BreedImages loads the breed name to image URL mapping. Keys are not
// validated against any other dataset.
func (l *Loader) BreedImages(r io.Reader) (map[string]string, error) {
	return l.keyValue(r, DatasetImages)
}

func (l *Loader) keyValue(r io.Reader, ds string) (map[string]string, error) {
	out := make(map[string]string)
	err := l.mapping(r, ds, PermissiveKeys, nil, func(line int, key string, rest []string) error {
		out[key] = rest[0]
		l.ingested(ds)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
