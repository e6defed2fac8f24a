package heatmap

import "github.com/killallgit/songpeaks/internal/models"

// operationalResponse is the self-hosted YouTube operational API payload for
// /videos?part=mostReplayed
type operationalResponse struct {
	Items []operationalVideo `json:"items"`
}

type operationalVideo struct {
	VideoID      string        `json:"videoId"`
	Title        string        `json:"title,omitempty"`
	MostReplayed *mostReplayed `json:"mostReplayed,omitempty"`
}

type mostReplayed struct {
	Markers []models.IntensitySample `json:"markers"`
}

// Result is what the heatmap service yielded for a single video. Problems
// with the payload never fail the fetch; they are reported in Warning.
type Result struct {
	// Title is the service's own title for the video, if any
	Title string
	// Samples holds the markers of the first item; nil when absent
	Samples []models.IntensitySample
	// HasMarkers is false when the payload had no mostReplayed markers
	HasMarkers bool
	// Warning is a human readable, non-fatal problem description
	Warning string
}
