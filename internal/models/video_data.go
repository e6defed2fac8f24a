package models

// VideoData is the derived-data payload for one video
type VideoData struct {
	Title                 string           `json:"title"`
	ThumbnailURL          string           `json:"thumbnailUrl"`
	SuggestedChunks       []CandidateRange `json:"suggestedChunks"`
	DurationSeconds       *float64         `json:"durationSeconds"`
	OperationalAPIWarning *string          `json:"operationalApiWarning"`
}

// Warning returns the upstream warning or ""
func (v *VideoData) Warning() string {
	if v == nil || v.OperationalAPIWarning == nil {
		return ""
	}
	return *v.OperationalAPIWarning
}

// Duration returns the known duration or 0
func (v *VideoData) Duration() float64 {
	if v == nil || v.DurationSeconds == nil {
		return 0
	}
	return *v.DurationSeconds
}
