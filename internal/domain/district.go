package domain

import "fmt"

// District is one of the city districts a dog owner can live in. The value is
// immutable; distance-derived closeness scores live in the loader's index, not
// on the district itself.
type District struct {
	ID   int
	Name string
}

// VertexID returns the graph key for the district.
func (d District) VertexID() string {
	return fmt.Sprintf("district:%d", d.ID)
}

// VertexKind identifies the district vertex type.
func (d District) VertexKind() string {
	return KindDistrict
}

// Coordinate is a WGS84 latitude/longitude pair for a district centre.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Vertex kind discriminators used across both ownership graphs.
const (
	KindUser     = "user"
	KindDistrict = "district"
	KindBreed    = "breed"
)
