package dto

type CreateEntryRequest struct {
	Path  string `json:"path"`
	Query bool   `json:"query"`
}

type LegResponse struct {
	Origin          string  `json:"origin"`
	Destination     string  `json:"destination"`
	Label           string  `json:"label"`
	Success         bool    `json:"success"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	Distance        string  `json:"distance"`
	Duration        string  `json:"duration"`
}

type EntryResponse struct {
	ID                   int64         `json:"id"`
	Path                 string        `json:"path"`
	Waypoints            []string      `json:"waypoints"`
	Status               string        `json:"status"`
	Legs                 []LegResponse `json:"legs"`
	TotalDistanceMeters  *float64      `json:"total_distance_meters"`
	TotalDurationSeconds *float64      `json:"total_duration_seconds"`
	Distance             string        `json:"distance"`
	Duration             string        `json:"duration"`
}

type ListEntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
}

type QueryResponse struct {
	Token string        `json:"token"`
	Entry EntryResponse `json:"entry"`
}

type ImportResponse struct {
	Imported int     `json:"imported"`
	IDs      []int64 `json:"ids"`
}

type TotalsResponse struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	Distance        string  `json:"distance"`
	Duration        string  `json:"duration"`
	Summary         string  `json:"summary"`
	InFlight        int     `json:"in_flight"`
}
