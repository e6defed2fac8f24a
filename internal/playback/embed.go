package playback

import (
	"fmt"
	"net/url"
	"strconv"
	"sync"
)

// EmbedPlayer is a headless Player that turns load requests into YouTube
// embed URLs, for terminals that hand playback off to a browser
type EmbedPlayer struct {
	mu       sync.Mutex
	videoID  string
	url      string
	position *float64
}

// NewEmbedPlayer creates an EmbedPlayer
func NewEmbedPlayer() *EmbedPlayer {
	return &EmbedPlayer{}
}

// LoadVideo records req as the current embed URL
func (p *EmbedPlayer) LoadVideo(req LoadRequest) error {
	params := url.Values{}
	params.Set("autoplay", "1")
	if req.StartSeconds > 0 {
		params.Set("start", strconv.Itoa(req.StartSeconds))
	}
	if req.EndSeconds != nil {
		params.Set("end", strconv.Itoa(*req.EndSeconds))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.videoID = req.VideoID
	p.position = nil
	p.url = fmt.Sprintf("https://www.youtube.com/embed/%s?%s", url.PathEscape(req.VideoID), params.Encode())
	return nil
}

// CurrentVideoID returns the last loaded video
func (p *EmbedPlayer) CurrentVideoID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.videoID
}

// ReportPosition records the position the browser player shows, since the
// embed itself never reports back
func (p *EmbedPlayer) ReportPosition(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = &seconds
}

// CurrentTime returns the last reported position of the current load
func (p *EmbedPlayer) CurrentTime() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.position == nil {
		return 0, fmt.Errorf("embed player position not reported")
	}
	return *p.position, nil
}

// URL returns the embed URL of the last load
func (p *EmbedPlayer) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}
