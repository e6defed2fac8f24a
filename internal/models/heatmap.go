package models

// IntensitySample is a single "most replayed" marker from the heatmap service.
// Samples arrive in arrival order, which is not guaranteed to be sorted.
type IntensitySample struct {
	StartMillis              int64   `json:"startMillis"`
	IntensityScoreNormalized float64 `json:"intensityScoreNormalized"`
}
