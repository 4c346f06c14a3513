package dataset

import (
	"errors"
	"fmt"
)

var errTooFewColumns = errors.New("too few columns")

// MalformedRowError reports a row whose required numeric field could not be
// parsed. A single malformed row fails the whole load; skipping is reserved
// for rows that are well-formed but incomplete.
type MalformedRowError struct {
	Dataset string
	Line    int
	Field   string
	Err     error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("%s line %d: malformed %s: %v", e.Dataset, e.Line, e.Field, e.Err)
}

func (e *MalformedRowError) Unwrap() error {
	return e.Err
}

// UnresolvedKeyError reports a row in a strict mapping table whose key does
// not resolve against the loaded districts.
type UnresolvedKeyError struct {
	Dataset string
	Line    int
	Key     string
}

func (e *UnresolvedKeyError) Error() string {
	return fmt.Sprintf("%s line %d: key %q does not resolve to a known district", e.Dataset, e.Line, e.Key)
}

// DegenerateDatasetError reports a distance table whose maximum distance is
// zero, which leaves the closeness rescale undefined. An empty table hits
// this too.
type DegenerateDatasetError struct {
	Dataset string
}

func (e *DegenerateDatasetError) Error() string {
	return fmt.Sprintf("%s: maximum distance is zero, cannot normalize", e.Dataset)
}
