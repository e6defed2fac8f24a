package models

// FavoriteSong is a saved video together with its sections and the
// suggestions computed when it was added. It is the aggregate persisted in
// the favorites storage slot.
type FavoriteSong struct {
	VideoID             string           `json:"videoId"`
	Title               string           `json:"title"`
	ThumbnailURL        string           `json:"thumbnailUrl"`
	AddedDate           string           `json:"addedDate"` // RFC3339
	Sections            []Section        `json:"sections"`
	OriginalSuggestions []CandidateRange `json:"originalSuggestions,omitempty"`
	DurationSeconds     *float64         `json:"durationSeconds,omitempty"`
}

// HasTimeline reports whether the duration is known, which timeline
// features require.
func (f *FavoriteSong) HasTimeline() bool {
	return f.DurationSeconds != nil && *f.DurationSeconds > 0
}

// Duration returns the known duration or 0
func (f *FavoriteSong) Duration() float64 {
	if !f.HasTimeline() {
		return 0
	}
	return *f.DurationSeconds
}

// FindSection returns the index of the section with the given id, or -1
func (f *FavoriteSong) FindSection(id string) int {
	for i := range f.Sections {
		if f.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

// FindSectionByRange returns the index of the first section whose bounds
// match within DuplicateTolerance, or -1
func (f *FavoriteSong) FindSectionByRange(start, end float64) int {
	for i := range f.Sections {
		if f.Sections[i].Range().SameRange(start, end) {
			return i
		}
	}
	return -1
}
