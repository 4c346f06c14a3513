package export

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/dataset"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/domain"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/graph"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/metrics"
)

// Input carries everything one export run writes: the assembled graphs plus
// the lookup tables used to enrich breed nodes.
type Input struct {
	Districts    []domain.District
	Coordinates  map[int]domain.Coordinate
	Closeness    []dataset.ClosenessPair
	Owners       *graph.Graph
	Popularity   *graph.WeightedGraph
	Profiles     []domain.BreedProfile
	Translations map[string]string
	Images       map[string]string
}

// Stats reports how many records each phase of a run wrote.
type Stats struct {
	Districts  int
	Owners     int
	Breeds     int
	Owns       int
	Popularity int
	Closeness  int
	Duration   time.Duration
}

// Exporter merges the assembled graphs into a Neo4j compatible database.
type Exporter struct {
	client    Client
	log       zerolog.Logger
	workers   int
	batchSize int
}

// New instantiates an Exporter. Non-positive workers or batch sizes fall
// back to defaults.
func New(client Client, log zerolog.Logger, workers, batchSize int) *Exporter {
	if workers <= 0 {
		workers = 4
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Exporter{
		client:    client,
		log:       log,
		workers:   workers,
		batchSize: batchSize,
	}
}

// Export writes the input to the graph database. Node phases run before
// relationship phases because the relationship statements MATCH their
// endpoints; batches within a phase run concurrently.
func (e *Exporter) Export(ctx context.Context, in Input) (Stats, error) {
	started := time.Now()

	districts := districtRows(in.Districts, in.Coordinates)
	owners := ownerRows(in.Owners)
	breeds := breedRows(in.Owners, in.Profiles, in.Translations, in.Images)
	owns := ownsRows(in.Owners)
	popularity := popularityRows(in.Popularity)
	closeness := closenessRows(in.Closeness)

	phases := []struct {
		name   string
		cypher string
		rows   []map[string]any
	}{
		{"districts", mergeDistrictsCypher, districts},
		{"owners", mergeOwnersCypher, owners},
		{"breeds", mergeBreedsCypher, breeds},
		{"owns", mergeOwnsCypher, owns},
		{"popularity", mergePopularityCypher, popularity},
		{"closeness", mergeClosenessCypher, closeness},
	}

	for _, phase := range phases {
		if err := e.writeRows(ctx, phase.name, phase.cypher, phase.rows); err != nil {
			metrics.RecordExportRun(time.Since(started), err)
			return Stats{}, fmt.Errorf("export %s: %w", phase.name, err)
		}
		metrics.RecordExported(phase.name, len(phase.rows))
	}

	stats := Stats{
		Districts:  len(districts),
		Owners:     len(owners),
		Breeds:     len(breeds),
		Owns:       len(owns),
		Popularity: len(popularity),
		Closeness:  len(closeness),
		Duration:   time.Since(started),
	}
	metrics.RecordExportRun(stats.Duration, nil)
	return stats, nil
}

// Summary returns the node count per label currently in the database.
func (e *Exporter) Summary(ctx context.Context) (map[string]int64, error) {
	res, err := e.client.ExecuteRead(ctx, countNodesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("count nodes: %w", err)
	}
	out := make(map[string]int64, len(res.Records))
	for _, record := range res.Records {
		out[toString(record["label"])] = toInt64(record["total"])
	}
	return out, nil
}

func (e *Exporter) writeRows(ctx context.Context, name, cypher string, rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}
	batches := chunkRows(rows, e.batchSize)
	e.log.Debug().
		Str("phase", name).
		Int("rows", len(rows)).
		Int("batches", len(batches)).
		Msg("export phase started")

	return run(ctx, e.workers, len(batches), func(idx int) error {
		_, err := e.client.ExecuteWrite(ctx, cypher, map[string]any{"rows": batches[idx]})
		if err != nil {
			return fmt.Errorf("merge %s batch %d: %w", name, idx, err)
		}
		return nil
	})
}

func chunkRows(rows []map[string]any, size int) [][]map[string]any {
	var out [][]map[string]any
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}

func districtRows(districts []domain.District, coords map[int]domain.Coordinate) []map[string]any {
	rows := make([]map[string]any, 0, len(districts))
	for _, d := range districts {
		row := map[string]any{
			"districtId": d.ID,
			"name":       d.Name,
			"lat":        nil,
			"lng":        nil,
		}
		if c, ok := coords[d.ID]; ok {
			row["lat"] = c.Lat
			row["lng"] = c.Lng
		}
		rows = append(rows, row)
	}
	return rows
}

func ownerRows(owners *graph.Graph) []map[string]any {
	if owners == nil {
		return nil
	}
	var rows []map[string]any
	for _, v := range owners.Vertices() {
		user, ok := v.(domain.User)
		if !ok {
			continue
		}
		rows = append(rows, map[string]any{
			"ownerId":    user.ID,
			"age":        user.Age,
			"gender":     user.Gender,
			"districtId": user.DistrictID,
		})
	}
	return rows
}

func breedRows(owners *graph.Graph, profiles []domain.BreedProfile, translations, images map[string]string) []map[string]any {
	if owners == nil {
		return nil
	}
	profileByName := make(map[string]domain.BreedProfile, len(profiles))
	for _, p := range profiles {
		profileByName[p.Name] = p
	}

	var rows []map[string]any
	for _, v := range owners.Vertices() {
		breed, ok := v.(domain.Breed)
		if !ok {
			continue
		}
		name := string(breed)
		props := map[string]any{}
		if english, ok := translations[name]; ok {
			props["englishName"] = english
			if url, ok := images[english]; ok {
				props["imageUrl"] = url
			}
			if profile, ok := profileByName[english]; ok {
				for trait, score := range traitProperties(profile) {
					props[trait] = score
				}
			}
		}
		rows = append(rows, map[string]any{
			"name":  name,
			"props": props,
		})
	}
	return rows
}

func ownsRows(owners *graph.Graph) []map[string]any {
	if owners == nil {
		return nil
	}
	var rows []map[string]any
	for _, edge := range owners.Edges() {
		user, breed, ok := splitOwnerEdge(edge.A, edge.B)
		if !ok {
			continue
		}
		rows = append(rows, map[string]any{
			"ownerId": user.ID,
			"breed":   string(breed),
		})
	}
	return rows
}

func popularityRows(popularity *graph.WeightedGraph) []map[string]any {
	if popularity == nil {
		return nil
	}
	var rows []map[string]any
	for _, edge := range popularity.Edges() {
		district, breed, ok := splitDistrictEdge(edge.A, edge.B)
		if !ok {
			continue
		}
		rows = append(rows, map[string]any{
			"districtId": district.ID,
			"breed":      string(breed),
			"weight":     edge.Weight,
		})
	}
	return rows
}

func closenessRows(pairs []dataset.ClosenessPair) []map[string]any {
	rows := make([]map[string]any, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, map[string]any{
			"originId":      p.OriginID,
			"destinationId": p.DestinationID,
			"score":         p.Score,
		})
	}
	return rows
}

func splitOwnerEdge(a, b graph.Vertex) (domain.User, domain.Breed, bool) {
	user, userOK := a.(domain.User)
	breed, breedOK := b.(domain.Breed)
	if !userOK || !breedOK {
		user, userOK = b.(domain.User)
		breed, breedOK = a.(domain.Breed)
	}
	return user, breed, userOK && breedOK
}

func splitDistrictEdge(a, b graph.Vertex) (domain.District, domain.Breed, bool) {
	district, districtOK := a.(domain.District)
	breed, breedOK := b.(domain.Breed)
	if !districtOK || !breedOK {
		district, districtOK = b.(domain.District)
		breed, breedOK = a.(domain.Breed)
	}
	return district, breed, districtOK && breedOK
}

func traitProperties(p domain.BreedProfile) map[string]any {
	return map[string]any{
		"affectionateWithFamily": p.AffectionateWFamily,
		"goodWithYoungChildren":  p.GoodWYoungChildren,
		"goodWithOtherDogs":      p.GoodWOtherDog,
		"sheddingLevel":          p.SheddingLevel,
		"opennessToStrangers":    p.OpennessToStrangers,
		"playfulness":            p.Playfulness,
		"protectiveNature":       p.ProtectiveNature,
		"adaptability":           p.Adaptability,
		"trainability":           p.Trainability,
		"energy":                 p.Energy,
		"barking":                p.Barking,
		"stimulationNeeds":       p.StimulationNeeds,
	}
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

const mergeDistrictsCypher = `
UNWIND $rows AS row
MERGE (d:District {districtId: row.districtId})
SET d.name = row.name,
    d.lat = row.lat,
    d.lng = row.lng
`

const mergeOwnersCypher = `
UNWIND $rows AS row
MERGE (o:Owner {ownerId: row.ownerId})
SET o.age = row.age,
    o.gender = row.gender
WITH o, row
MATCH (d:District {districtId: row.districtId})
MERGE (o)-[:LIVES_IN]->(d)
`

const mergeBreedsCypher = `
UNWIND $rows AS row
MERGE (b:Breed {name: row.name})
SET b += row.props
`

const mergeOwnsCypher = `
UNWIND $rows AS row
MATCH (o:Owner {ownerId: row.ownerId})
MATCH (b:Breed {name: row.breed})
MERGE (o)-[:OWNS]->(b)
`

const mergePopularityCypher = `
UNWIND $rows AS row
MATCH (d:District {districtId: row.districtId})
MATCH (b:Breed {name: row.breed})
MERGE (b)-[p:POPULAR_IN]->(d)
SET p.weight = row.weight
`

const mergeClosenessCypher = `
UNWIND $rows AS row
MATCH (a:District {districtId: row.originId})
MATCH (b:District {districtId: row.destinationId})
MERGE (a)-[n:NEAR]->(b)
SET n.score = row.score
`

const countNodesCypher = `
MATCH (n)
UNWIND labels(n) AS label
RETURN label, count(n) AS total
ORDER BY label
`
