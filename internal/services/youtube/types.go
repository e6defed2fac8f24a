package youtube

// videosResponse is the YouTube Data API v3 /videos payload
type videosResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID             string         `json:"id"`
	Snippet        snippet        `json:"snippet"`
	ContentDetails contentDetails `json:"contentDetails"`
}

type snippet struct {
	Title      string     `json:"title"`
	Thumbnails thumbnails `json:"thumbnails"`
}

type thumbnails struct {
	Default *thumbnail `json:"default,omitempty"`
	Medium  *thumbnail `json:"medium,omitempty"`
	High    *thumbnail `json:"high,omitempty"`
}

type thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type contentDetails struct {
	Duration string `json:"duration"` // ISO-8601, e.g. PT3M33S
}

// Video is the metadata this application needs from the Data API
type Video struct {
	ID           string
	Title        string
	ThumbnailURL string
	// DurationSeconds is 0 when the duration is missing or unparseable
	DurationSeconds float64
}
