package models

// Playlist groups favorites by video id. Stored in its own slot.
type Playlist struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	SongVideoIDs []string `json:"songVideoIds"`
	CreatedDate  string   `json:"createdDate"` // RFC3339
}

// Contains reports whether the playlist already references the video
func (p *Playlist) Contains(videoID string) bool {
	for _, id := range p.SongVideoIDs {
		if id == videoID {
			return true
		}
	}
	return false
}
