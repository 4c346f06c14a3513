package server

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/domain"
	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API. All endpoints read
// from the bundle holder and answer 503 until the first assembly lands.
type APIHandlers struct {
	log    zerolog.Logger
	bundle *BundleHolder
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(log zerolog.Logger, bundle *BundleHolder) *APIHandlers {
	return &APIHandlers{
		log:    log,
		bundle: bundle,
	}
}

func (h *APIHandlers) handleDistricts(w http.ResponseWriter, r *http.Request) {
	bundle, ok := h.readyBundle(w)
	if !ok {
		return
	}

	districts := bundle.Districts.All()
	resp := districtListResponse{
		Districts: make([]districtResponse, 0, len(districts)),
	}
	for _, d := range districts {
		item := districtResponse{ID: d.ID, Name: d.Name}
		if coord, ok := bundle.Coordinates[d.ID]; ok {
			lat, lng := coord.Lat, coord.Lng
			item.Latitude = &lat
			item.Longitude = &lng
		}
		resp.Districts = append(resp.Districts, item)
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleDistrictCloseness(w http.ResponseWriter, r *http.Request) {
	bundle, ok := h.readyBundle(w)
	if !ok {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "district id must be numeric")
		return
	}
	district, ok := bundle.Districts.ByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "district not found")
		return
	}

	// Scores are stored per listed direction; fold both directions onto the
	// other district's id.
	scores := make(map[int]float64)
	for _, pair := range bundle.Resolved.Pairs() {
		switch id {
		case pair.OriginID:
			scores[pair.DestinationID] = pair.Score
		case pair.DestinationID:
			scores[pair.OriginID] = pair.Score
		}
	}

	resp := districtClosenessResponse{
		DistrictID: district.ID,
		Name:       district.Name,
		Neighbors:  make([]closenessEntry, 0, len(scores)),
	}
	for otherID, score := range scores {
		other, ok := bundle.Districts.ByID(otherID)
		if !ok {
			continue
		}
		resp.Neighbors = append(resp.Neighbors, closenessEntry{
			DistrictID: other.ID,
			Name:       other.Name,
			Closeness:  score,
		})
	}
	sort.Slice(resp.Neighbors, func(i, j int) bool {
		if resp.Neighbors[i].Closeness != resp.Neighbors[j].Closeness {
			return resp.Neighbors[i].Closeness > resp.Neighbors[j].Closeness
		}
		return resp.Neighbors[i].DistrictID < resp.Neighbors[j].DistrictID
	})

	if limit := parseInt(r.URL.Query().Get("limit"), 0); limit > 0 && limit < len(resp.Neighbors) {
		resp.Neighbors = resp.Neighbors[:limit]
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleBreeds(w http.ResponseWriter, r *http.Request) {
	bundle, ok := h.readyBundle(w)
	if !ok {
		return
	}

	germanByEnglish := make(map[string]string, len(bundle.Translations))
	for german, english := range bundle.Translations {
		germanByEnglish[english] = german
	}

	resp := breedListResponse{
		Breeds: make([]breedResponse, 0, len(bundle.Profiles)),
	}
	for _, profile := range bundle.Profiles {
		resp.Breeds = append(resp.Breeds, breedResponse{
			Name:       profile.Name,
			GermanName: germanByEnglish[profile.Name],
			ImageURL:   bundle.Images[profile.Name],
			Traits: breedTraitsResponse{
				AffectionateWithFamily: profile.AffectionateWFamily,
				GoodWithYoungChildren:  profile.GoodWYoungChildren,
				GoodWithOtherDogs:      profile.GoodWOtherDog,
				SheddingLevel:          profile.SheddingLevel,
				OpennessToStrangers:    profile.OpennessToStrangers,
				Playfulness:            profile.Playfulness,
				ProtectiveNature:       profile.ProtectiveNature,
				Adaptability:           profile.Adaptability,
				Trainability:           profile.Trainability,
				Energy:                 profile.Energy,
				Barking:                profile.Barking,
				StimulationNeeds:       profile.StimulationNeeds,
			},
		})
	}
	sort.Slice(resp.Breeds, func(i, j int) bool {
		return resp.Breeds[i].Name < resp.Breeds[j].Name
	})

	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleBreedDistricts(w http.ResponseWriter, r *http.Request) {
	bundle, ok := h.readyBundle(w)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	if name == "" {
		writeError(w, http.StatusBadRequest, "breed name is required")
		return
	}

	breed := domain.NormalizeBreed(name)
	if !bundle.Popularity.HasVertex(breed.VertexID()) {
		h.log.Debug().Str("breed", string(breed)).Msg("breed lookup missed")
		writeError(w, http.StatusNotFound, "breed not found")
		return
	}

	resp := breedDistrictsResponse{
		Breed:     string(breed),
		Districts: []breedDistrictEntry{},
	}
	for _, v := range bundle.Popularity.Neighbors(breed.VertexID()) {
		district, ok := v.(domain.District)
		if !ok {
			continue
		}
		dogs := int(bundle.Popularity.Weight(breed.VertexID(), district.VertexID()))
		resp.Districts = append(resp.Districts, breedDistrictEntry{
			DistrictID: district.ID,
			Name:       district.Name,
			Dogs:       dogs,
		})
		resp.TotalDogs += dogs
	}
	sort.Slice(resp.Districts, func(i, j int) bool {
		if resp.Districts[i].Dogs != resp.Districts[j].Dogs {
			return resp.Districts[i].Dogs > resp.Districts[j].Dogs
		}
		return resp.Districts[i].DistrictID < resp.Districts[j].DistrictID
	})

	if limit := parseInt(r.URL.Query().Get("limit"), 0); limit > 0 && limit < len(resp.Districts) {
		resp.Districts = resp.Districts[:limit]
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleGraphSummary(w http.ResponseWriter, r *http.Request) {
	bundle, ok := h.readyBundle(w)
	if !ok {
		return
	}

	stats := bundle.Stats
	resp := graphSummaryResponse{
		RunID:       stats.RunID.String(),
		AssembledAt: formatTime(stats.StartedAt),
		DurationMS:  stats.Duration.Milliseconds(),
		Datasets:    make(map[string]datasetStatsResponse, len(stats.PerDataset)),
		Ownership: graphStatsResponse{
			Vertices: bundle.Owners.VertexCount(),
			Edges:    bundle.Owners.EdgeCount(),
		},
		DistrictPopularity: graphStatsResponse{
			Vertices: bundle.Popularity.VertexCount(),
			Edges:    bundle.Popularity.EdgeCount(),
		},
	}
	for ds, s := range stats.PerDataset {
		resp.Datasets[ds] = datasetStatsResponse{
			Ingested:   s.Ingested,
			Skipped:    s.Skipped,
			DurationMS: s.Duration.Milliseconds(),
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) readyBundle(w http.ResponseWriter) (*service.Bundle, bool) {
	bundle, ok := h.bundle.Get()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "datasets are still being assembled")
	}
	return bundle, ok
}

// --- Response DTOs ---

type districtListResponse struct {
	Districts []districtResponse `json:"districts"`
}

type districtResponse struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type districtClosenessResponse struct {
	DistrictID int              `json:"districtId"`
	Name       string           `json:"name"`
	Neighbors  []closenessEntry `json:"neighbors"`
}

type closenessEntry struct {
	DistrictID int     `json:"districtId"`
	Name       string  `json:"name"`
	Closeness  float64 `json:"closeness"`
}

type breedListResponse struct {
	Breeds []breedResponse `json:"breeds"`
}

type breedResponse struct {
	Name       string              `json:"name"`
	GermanName string              `json:"germanName,omitempty"`
	ImageURL   string              `json:"imageUrl,omitempty"`
	Traits     breedTraitsResponse `json:"traits"`
}

type breedTraitsResponse struct {
	AffectionateWithFamily int `json:"affectionateWithFamily"`
	GoodWithYoungChildren  int `json:"goodWithYoungChildren"`
	GoodWithOtherDogs      int `json:"goodWithOtherDogs"`
	SheddingLevel          int `json:"sheddingLevel"`
	OpennessToStrangers    int `json:"opennessToStrangers"`
	Playfulness            int `json:"playfulness"`
	ProtectiveNature       int `json:"protectiveNature"`
	Adaptability           int `json:"adaptability"`
	Trainability           int `json:"trainability"`
	Energy                 int `json:"energy"`
	Barking                int `json:"barking"`
	StimulationNeeds       int `json:"stimulationNeeds"`
}

type breedDistrictsResponse struct {
	Breed     string               `json:"breed"`
	Districts []breedDistrictEntry `json:"districts"`
	TotalDogs int                  `json:"totalDogs"`
}

type breedDistrictEntry struct {
	DistrictID int    `json:"districtId"`
	Name       string `json:"name"`
	Dogs       int    `json:"dogs"`
}

type graphSummaryResponse struct {
	RunID              string                          `json:"runId"`
	AssembledAt        string                          `json:"assembledAt"`
	DurationMS         int64                           `json:"durationMs"`
	Datasets           map[string]datasetStatsResponse `json:"datasets"`
	Ownership          graphStatsResponse              `json:"ownership"`
	DistrictPopularity graphStatsResponse              `json:"districtPopularity"`
}

type datasetStatsResponse struct {
	Ingested   int            `json:"ingested"`
	Skipped    map[string]int `json:"skipped,omitempty"`
	DurationMS int64          `json:"durationMs"`
}

type graphStatsResponse struct {
	Vertices int `json:"vertices"`
	Edges    int `json:"edges"`
}

// --- Helpers ---

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}
