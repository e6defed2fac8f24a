package playback

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval is how often the position is read while playing
const DefaultPollInterval = 500 * time.Millisecond

// Binding keeps the player in step with play requests and tracks its state
type Binding struct {
	mu          sync.Mutex
	player      Player
	interval    time.Duration
	logger      *zap.Logger
	onTime      func(float64)
	resetHooks  []func()
	nowPlaying  *NowPlaying
	lastRange   string
	state       PlayerState
	currentTime float64
	lastError   string

	stopPoll context.CancelFunc
	pollDone chan struct{}
}

// Option configures a Binding
type Option func(*Binding)

// WithPollInterval overrides DefaultPollInterval
func WithPollInterval(d time.Duration) Option {
	return func(b *Binding) {
		if d > 0 {
			b.interval = d
		}
	}
}

// WithTimeUpdates registers a callback receiving every polled position
func WithTimeUpdates(fn func(seconds float64)) Option {
	return func(b *Binding) { b.onTime = fn }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(b *Binding) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBinding creates a binding for player
func NewBinding(player Player, opts ...Option) *Binding {
	b := &Binding{
		player:   player,
		interval: DefaultPollInterval,
		logger:   zap.NewNop(),
		state:    StateUnstarted,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// onReset registers fn to run when marking must be abandoned
func (b *Binding) onReset(fn func()) {
	b.mu.Lock()
	b.resetHooks = append(b.resetHooks, fn)
	b.mu.Unlock()
}

func (b *Binding) runResetHooks() {
	b.mu.Lock()
	hooks := append([]func(){}, b.resetHooks...)
	b.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// Play loads a request. A different video triggers a full load; the same
// video with a different range triggers a bounded load; otherwise nothing.
func (b *Binding) Play(req NowPlaying) error {
	if req.VideoID == "" {
		return fmt.Errorf("play request without video id")
	}
	// Full-song and saved-section plays abandon manual marking
	if req.Kind != KindPreview {
		b.runResetHooks()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := req.rangeKey()
	loaded := b.player.CurrentVideoID()
	sameVideo := loaded == req.VideoID
	if sameVideo && key == b.lastRange {
		b.nowPlaying = &req
		return nil
	}

	load := LoadRequest{VideoID: req.VideoID}
	if start, end, bounded := req.Bounds(); bounded {
		load.StartSeconds = int(math.Floor(start))
		e := int(math.Ceil(end))
		load.EndSeconds = &e
	}
	if err := b.player.LoadVideo(load); err != nil {
		return fmt.Errorf("load video %s: %w", req.VideoID, err)
	}

	b.nowPlaying = &req
	b.lastRange = key
	b.lastError = ""
	b.logger.Debug("playback loaded",
		zap.String("video_id", req.VideoID),
		zap.Stringer("kind", req.Kind),
		zap.Bool("reload", !sameVideo),
		zap.Int("start", load.StartSeconds))
	return nil
}

// NowPlaying returns the active request
func (b *Binding) NowPlaying() (NowPlaying, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.nowPlaying == nil {
		return NowPlaying{}, false
	}
	return *b.nowPlaying, true
}

// State returns the last reported player state
func (b *Binding) State() PlayerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// CurrentTime returns the last known playback position
func (b *Binding) CurrentTime() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentTime
}

// CanMark reports whether manual marking controls are enabled
func (b *Binding) CanMark() bool {
	s := b.State()
	return s == StatePlaying || s == StatePaused
}

// LastError returns the message of the last player error
func (b *Binding) LastError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastError
}

// HandleStateChange reacts to a player state event. Polling runs only while playing.
func (b *Binding) HandleStateChange(state PlayerState) {
	b.mu.Lock()
	b.state = state
	b.mu.Unlock()

	if state == StatePlaying {
		b.startPolling()
		return
	}

	b.stopPolling()
	if state == StatePaused || state == StateEnded {
		b.poll()
	}
	if state == StateEnded || state == StateUnstarted {
		b.runResetHooks()
	}
}

// HandleError reacts to a player error code and returns its message
func (b *Binding) HandleError(code int) string {
	message := fmt.Sprintf("Player Error: Code %d.", code)
	if code == 101 || code == 150 {
		message = "Embedding disabled for this video."
	}

	b.stopPolling()
	b.mu.Lock()
	b.nowPlaying = nil
	b.lastRange = ""
	b.lastError = message
	b.mu.Unlock()
	b.runResetHooks()

	b.logger.Warn("player error", zap.Int("code", code), zap.String("message", message))
	return message
}

// ClearIfSection drops the active request when it plays the given saved section
func (b *Binding) ClearIfSection(videoID, sectionID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	np := b.nowPlaying
	if np == nil || np.Kind != KindSaved || np.VideoID != videoID || np.Section.ID != sectionID {
		return false
	}
	b.nowPlaying = nil
	return true
}

// ClearIfVideo drops the active request when it plays videoID
func (b *Binding) ClearIfVideo(videoID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.nowPlaying == nil || b.nowPlaying.VideoID != videoID {
		return false
	}
	b.nowPlaying = nil
	return true
}

// Close stops polling
func (b *Binding) Close() {
	b.stopPolling()
}

func (b *Binding) startPolling() {
	b.stopPolling()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	b.mu.Lock()
	b.stopPoll = cancel
	b.pollDone = done
	interval := b.interval
	b.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !b.poll() {
					return
				}
			}
		}
	}()
}

func (b *Binding) stopPolling() {
	b.mu.Lock()
	cancel, done := b.stopPoll, b.pollDone
	b.stopPoll, b.pollDone = nil, nil
	b.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// poll reads the position once; false means the player stopped answering
func (b *Binding) poll() bool {
	t, err := b.player.CurrentTime()
	if err != nil {
		b.logger.Debug("current time unavailable", zap.Error(err))
		return false
	}

	b.mu.Lock()
	b.currentTime = t
	onTime := b.onTime
	b.mu.Unlock()

	if onTime != nil {
		onTime(t)
	}
	return true
}
