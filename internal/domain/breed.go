package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MixedBreedMarker is the token the source data uses for mixed-breed dogs.
// Rows whose normalized breed name contains it are excluded from both graphs.
const MixedBreedMarker = "Mischling"

// Breed is a normalized dog breed name acting as a vertex in both ownership
// graphs. Construct values with NormalizeBreed so the same breed spelled with
// different casing collapses onto one vertex.
type Breed string

// VertexID returns the graph key for the breed.
func (b Breed) VertexID() string {
	return "breed:" + string(b)
}

// VertexKind identifies the breed vertex type.
func (b Breed) VertexKind() string {
	return KindBreed
}

// IsMixed reports whether the breed carries the mixed-breed marker. The check
// runs against the normalized name, so a marker that only matches in the
// original casing does not count.
func (b Breed) IsMixed() bool {
	return strings.Contains(string(b), MixedBreedMarker)
}

// NormalizeBreed uppercases the first rune and lowercases the remainder,
// matching the convention of the source registry ("labrador RETRIEVER"
// becomes "Labrador retriever").
func NormalizeBreed(raw string) Breed {
	if raw == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(raw)
	rest := strings.ToLower(raw[size:])
	return Breed(string(unicode.ToUpper(first)) + rest)
}

// BreedProfile carries the twelve American Kennel Club trait scores for one
// breed, in source column order. Shedding and barking read as negative
// traits, energy and stimulation needs are for the end user to weigh, and the
// rest read as positive; the scoring layer applies that polarity, the profile
// just records the numbers.
type BreedProfile struct {
	Name                string
	AffectionateWFamily int
	GoodWYoungChildren  int
	GoodWOtherDog       int
	SheddingLevel       int
	OpennessToStrangers int
	Playfulness         int
	ProtectiveNature    int
	Adaptability        int
	Trainability        int
	Energy              int
	Barking             int
	StimulationNeeds    int
}
