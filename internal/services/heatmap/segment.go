package heatmap

import (
	"math"
	"sort"

	"github.com/killallgit/songpeaks/internal/models"
)

const (
	// artifactCutoffMillis drops the leading marker(s); the first half second
	// of the heatmap is an artifact of the source.
	artifactCutoffMillis = 500

	minSuggestions      = 3
	maxSuggestions      = 7
	suggestionsPerMin   = 2
	unknownTimeProgress = 0.5
)

// Options tunes the segmentation engine
type Options struct {
	MinDurationSeconds float64
	MaxDurationSeconds float64
	IntensityThreshold float64
	TimeWeightFactor   float64
}

// Option configures Options
type Option func(*Options)

// DefaultOptions returns the tuned defaults
func DefaultOptions() Options {
	return Options{
		MinDurationSeconds: 3,
		MaxDurationSeconds: 18,
		IntensityThreshold: 0.20,
		TimeWeightFactor:   0.4,
	}
}

// WithMinDuration sets the shortest run kept, in seconds
func WithMinDuration(seconds float64) Option {
	return func(o *Options) { o.MinDurationSeconds = seconds }
}

// WithMaxDuration sets the cap applied to long runs, in seconds
func WithMaxDuration(seconds float64) Option {
	return func(o *Options) { o.MaxDurationSeconds = seconds }
}

// WithIntensityThreshold sets the normalized intensity a run must hold
func WithIntensityThreshold(threshold float64) Option {
	return func(o *Options) { o.IntensityThreshold = threshold }
}

// WithTimeWeightFactor sets how strongly later runs are boosted
func WithTimeWeightFactor(factor float64) Option {
	return func(o *Options) { o.TimeWeightFactor = factor }
}

// WithOptions replaces all parameters at once (used when they come from config)
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

type scoredRun struct {
	startMillis int64
	endMillis   int64
	score       float64
}

// FindSuggestedChunks converts raw heatmap samples into at most
// SuggestionCount(videoDurationSeconds) ranked, non-identified ranges.
// A videoDurationSeconds <= 0 means the duration is unknown.
func FindSuggestedChunks(samples []models.IntensitySample, videoDurationSeconds float64, opts ...Option) []models.CandidateRange {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	result := []models.CandidateRange{}

	sorted := make([]models.IntensitySample, 0, len(samples))
	for _, s := range samples {
		if s.StartMillis > artifactCutoffMillis {
			sorted = append(sorted, s)
		}
	}
	if len(sorted) < 2 {
		return result
	}
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].StartMillis < sorted[b].StartMillis
	})

	minMillis := secondsToMillis(o.MinDurationSeconds)
	maxMillis := secondsToMillis(o.MaxDurationSeconds)
	var videoMillis int64
	if videoDurationSeconds > 0 {
		videoMillis = secondsToMillis(videoDurationSeconds)
	}

	var runs []scoredRun
	n := len(sorted)
	i := 0
	for i < n-1 {
		if sorted[i].IntensityScoreNormalized < o.IntensityThreshold {
			i++
			continue
		}

		startMillis := sorted[i].StartMillis
		peak := sorted[i].IntensityScoreNormalized
		endMillis := int64(-1)

		j := i + 1
		for ; j < n; j++ {
			if sorted[j].IntensityScoreNormalized < o.IntensityThreshold {
				endMillis = sorted[j].StartMillis
				break
			}
			peak = math.Max(peak, sorted[j].IntensityScoreNormalized)
		}
		// Never undercut: the run closes at the last sample.
		if endMillis == -1 {
			endMillis = sorted[n-1].StartMillis
		}

		if run, ok := capRun(startMillis, endMillis, minMillis, maxMillis, videoMillis); ok {
			timeProgress := unknownTimeProgress
			if videoMillis > 0 {
				timeProgress = float64(startMillis) / float64(videoMillis)
			}
			run.score = peak * (1 + timeProgress*o.TimeWeightFactor)
			runs = append(runs, run)
		}

		// Resume after the run's closing sample so an overlapping run is never
		// detected again from inside this one.
		i = j
	}

	sort.SliceStable(runs, func(a, b int) bool {
		return runs[a].score > runs[b].score
	})

	limit := SuggestionCount(videoDurationSeconds)
	if len(runs) > limit {
		runs = runs[:limit]
	}

	for _, r := range runs {
		result = append(result, models.CandidateRange{
			StartSeconds: float64(r.startMillis) / 1000,
			EndSeconds:   float64(r.endMillis) / 1000,
		})
	}
	return result
}

// capRun applies the minimum/maximum duration rules and the video-end cap.
func capRun(startMillis, endMillis, minMillis, maxMillis, videoMillis int64) (scoredRun, bool) {
	if endMillis <= startMillis || endMillis-startMillis < minMillis {
		return scoredRun{}, false
	}

	capped := endMillis
	if endMillis-startMillis > maxMillis {
		capped = startMillis + maxMillis
	}
	if videoMillis > 0 && capped > videoMillis {
		capped = videoMillis
	}
	if capped-startMillis < minMillis {
		return scoredRun{}, false
	}

	return scoredRun{startMillis: startMillis, endMillis: capped}, true
}

// SuggestionCount returns how many suggestions to keep: roughly two per
// minute of video, never fewer than 3 or more than 7. Unknown durations get 3.
func SuggestionCount(videoDurationSeconds float64) int {
	if videoDurationSeconds <= 0 {
		return minSuggestions
	}
	n := int(math.Ceil(videoDurationSeconds/60)) * suggestionsPerMin
	if n > maxSuggestions {
		n = maxSuggestions
	}
	if n < minSuggestions {
		n = minSuggestions
	}
	return n
}

func secondsToMillis(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}
