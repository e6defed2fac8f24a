package playback

import (
	"fmt"

	"github.com/killallgit/songpeaks/internal/models"
)

// Kind tags what is playing
type Kind int

const (
	// KindFull plays the whole video
	KindFull Kind = iota
	// KindSaved plays a saved section
	KindSaved
	// KindPreview plays an unsaved suggestion
	KindPreview
)

func (k Kind) String() string {
	switch k {
	case KindSaved:
		return "saved"
	case KindPreview:
		return "preview"
	default:
		return "full"
	}
}

// NowPlaying is a play request: a whole video, a saved section, or a preview
type NowPlaying struct {
	Kind    Kind
	VideoID string
	Section models.Section        // KindSaved
	Range   models.CandidateRange // KindPreview
}

// Full requests the whole video
func Full(videoID string) NowPlaying {
	return NowPlaying{Kind: KindFull, VideoID: videoID}
}

// Saved requests a saved section
func Saved(videoID string, section models.Section) NowPlaying {
	return NowPlaying{Kind: KindSaved, VideoID: videoID, Section: section}
}

// Preview requests an unsaved suggestion
func Preview(videoID string, r models.CandidateRange) NowPlaying {
	return NowPlaying{Kind: KindPreview, VideoID: videoID, Range: r}
}

// Bounds returns the requested range; bounded is false for a full play
func (n NowPlaying) Bounds() (start, end float64, bounded bool) {
	switch n.Kind {
	case KindSaved:
		return n.Section.StartSeconds, n.Section.EndSeconds, true
	case KindPreview:
		return n.Range.StartSeconds, n.Range.EndSeconds, true
	default:
		return 0, 0, false
	}
}

// rangeKey identifies the requested range for change detection
func (n NowPlaying) rangeKey() string {
	start, end, bounded := n.Bounds()
	if !bounded {
		return "full"
	}
	return fmt.Sprintf("%g-%g", start, end)
}

// PlayerState mirrors the embedded player's coarse states
type PlayerState int

const (
	StateUnstarted PlayerState = -1
	StateEnded     PlayerState = 0
	StatePlaying   PlayerState = 1
	StatePaused    PlayerState = 2
	StateBuffering PlayerState = 3
	StateCued      PlayerState = 5
)

func (s PlayerState) String() string {
	switch s {
	case StateEnded:
		return "ended"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBuffering:
		return "buffering"
	case StateCued:
		return "cued"
	default:
		return "unstarted"
	}
}

// LoadRequest is what the player is asked to load, in whole seconds
type LoadRequest struct {
	VideoID      string
	StartSeconds int
	EndSeconds   *int
}

// Player is the embedded video player
type Player interface {
	LoadVideo(req LoadRequest) error
	CurrentVideoID() string
	CurrentTime() (float64, error)
}
