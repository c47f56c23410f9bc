package dto

// Metrics arrive as decimal strings, exactly as an external bridge reports them.
type LegResultRequest struct {
	Token           string `json:"token"`
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	Success         bool   `json:"success"`
	DistanceMeters  string `json:"distance_meters"`
	DurationSeconds string `json:"duration_seconds"`
}

type TotalResultRequest struct {
	Token                string `json:"token"`
	Success              bool   `json:"success"`
	TotalDistanceMeters  string `json:"total_distance_meters"`
	TotalDurationSeconds string `json:"total_duration_seconds"`
}
