package timeline

import (
	"errors"
	"math"
	"sync"

	"github.com/killallgit/songpeaks/internal/models"
	"go.uber.org/zap"
)

const (
	// DefaultMinSectionSeconds is the shortest range a gesture can produce
	DefaultMinSectionSeconds = 0.2
	// ChangeTolerance is how far a resized edge must move to count as an edit
	ChangeTolerance = 0.01
)

// ErrNoDuration is returned when the video duration is unknown
var ErrNoDuration = errors.New("timeline requires a known video duration")

// State is the gesture recognizer state
type State int

const (
	Idle State = iota
	Resizing
	Creating
)

func (s State) String() string {
	switch s {
	case Resizing:
		return "resizing"
	case Creating:
		return "creating"
	default:
		return "idle"
	}
}

// Edge identifies a section handle
type Edge int

const (
	EdgeStart Edge = iota
	EdgeEnd
)

func (e Edge) String() string {
	if e == EdgeEnd {
		return "end"
	}
	return "start"
}

// Track is the horizontal geometry of the rendered track
type Track struct {
	Left  float64
	Width float64
}

// Editor receives committed gestures. The timeline never mutates sections itself.
type Editor interface {
	UpdateSection(id string, start, end float64) error
	CreateSection(name string, start, end float64) error
}

// PointerTarget receives window-level pointer events during a drag
type PointerTarget interface {
	PointerMove(x float64)
	PointerUp(x float64) error
	PointerCancel() error
}

// ListenerRegistry attaches window-level pointer listeners
type ListenerRegistry interface {
	Attach(target PointerTarget)
	Detach(target PointerTarget)
}

type noopRegistry struct{}

func (noopRegistry) Attach(PointerTarget) {}
func (noopRegistry) Detach(PointerTarget) {}

// drag is the active gesture
type drag struct {
	sectionID string
	edge      Edge
	initialX  float64
	// reference values; for a create gesture both hold the anchor time
	initialStart float64
	initialEnd   float64
	// proposed values driving live feedback
	currentStart float64
	currentEnd   float64
	// create only: bounds spanned by anchor and pointer, before the minimum push
	rawStart float64
	rawEnd   float64
}

// Timeline maps pointer gestures on a track spanning [0, duration] to
// section edits
type Timeline struct {
	mu          sync.Mutex
	duration    float64
	track       Track
	sections    []models.Section
	minDuration float64
	editor      Editor
	listeners   ListenerRegistry
	logger      *zap.Logger

	state      State
	drag       drag
	attached   bool
	committing bool
}

// Option configures a Timeline
type Option func(*Timeline)

// WithMinSectionSeconds overrides the minimum gesture duration
func WithMinSectionSeconds(seconds float64) Option {
	return func(t *Timeline) {
		if seconds > 0 {
			t.minDuration = seconds
		}
	}
}

// WithListeners sets the window listener registry
func WithListeners(r ListenerRegistry) Option {
	return func(t *Timeline) {
		if r != nil {
			t.listeners = r
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(t *Timeline) {
		if l != nil {
			t.logger = l
		}
	}
}

// New creates a timeline for a video of the given duration
func New(durationSeconds float64, track Track, editor Editor, opts ...Option) (*Timeline, error) {
	if !(durationSeconds > 0) || math.IsInf(durationSeconds, 0) {
		return nil, ErrNoDuration
	}
	t := &Timeline{
		duration:    durationSeconds,
		track:       track,
		minDuration: DefaultMinSectionSeconds,
		editor:      editor,
		listeners:   noopRegistry{},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Duration returns the track's total duration in seconds
func (t *Timeline) Duration() float64 {
	return t.duration
}

// SetSections replaces the sections shown on the track
func (t *Timeline) SetSections(sections []models.Section) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sections = append(t.sections[:0:0], sections...)
}

// SetTrack updates the track geometry, e.g. after a resize
func (t *Timeline) SetTrack(track Track) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.track = track
}

// State returns the current gesture state
func (t *Timeline) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// TimeAt maps a horizontal position to a clamped time
func (t *Timeline) TimeAt(x float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timeAt(x)
}

func (t *Timeline) timeAt(x float64) float64 {
	if t.track.Width <= 0 {
		return 0
	}
	return clamp((x-t.track.Left)/t.track.Width*t.duration, 0, t.duration)
}

// Pct maps a time to a clamped percentage of the track
func (t *Timeline) Pct(seconds float64) float64 {
	return clamp(seconds/t.duration*100, 0, 100)
}

// PointerDownHandle starts resizing one edge of a section. It reports
// whether a drag started; a drag already in progress wins.
func (t *Timeline) PointerDownHandle(sectionID string, edge Edge, x float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Idle || t.committing || t.track.Width <= 0 {
		return false
	}
	i := t.findSection(sectionID)
	if i < 0 {
		return false
	}
	section := t.sections[i]

	t.state = Resizing
	t.drag = drag{
		sectionID:    sectionID,
		edge:         edge,
		initialX:     x,
		initialStart: section.StartSeconds,
		initialEnd:   section.EndSeconds,
		currentStart: section.StartSeconds,
		currentEnd:   section.EndSeconds,
	}
	t.attachLocked()
	t.logger.Debug("resize started", zap.String("section_id", sectionID), zap.Stringer("edge", edge))
	return true
}

// PointerDownTrack starts creating a section anchored at x
func (t *Timeline) PointerDownTrack(x float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Idle || t.committing || t.track.Width <= 0 {
		return false
	}
	anchor := t.timeAt(x)

	t.state = Creating
	t.drag = drag{
		initialX:     x,
		initialStart: anchor,
		initialEnd:   anchor,
		currentStart: anchor,
		currentEnd:   anchor,
		rawStart:     anchor,
		rawEnd:       anchor,
	}
	t.attachLocked()
	t.logger.Debug("create started", zap.Float64("anchor", anchor))
	return true
}

// PointerMove updates the proposed range. It never writes to the editor.
func (t *Timeline) PointerMove(x float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.moveLocked(x)
}

func (t *Timeline) moveLocked(x float64) {
	now := t.timeAt(x)
	d := &t.drag

	switch t.state {
	case Resizing:
		// An edge with no legal position inside [0, duration] stays where it was.
		switch {
		case d.edge == EdgeStart && d.currentEnd < t.minDuration:
			d.currentStart = d.initialStart
		case d.edge == EdgeStart:
			d.currentStart = math.Max(0, math.Min(d.currentEnd-t.minDuration, now))
		case t.duration-d.currentStart < t.minDuration:
			d.currentEnd = d.initialEnd
		default:
			d.currentEnd = math.Min(t.duration, math.Max(d.currentStart+t.minDuration, now))
		}
	case Creating:
		anchor := d.initialStart
		d.rawStart = math.Min(anchor, now)
		d.rawEnd = math.Max(anchor, now)

		start, end := d.rawStart, d.rawEnd
		if end-start < t.minDuration {
			if now > anchor {
				end = start + t.minDuration
			} else {
				start = end - t.minDuration
			}
		}
		if start < 0 {
			start, end = 0, math.Min(t.duration, t.minDuration)
		}
		if end > t.duration {
			start, end = math.Max(0, t.duration-t.minDuration), t.duration
		}
		d.currentStart, d.currentEnd = start, end
	}
}

// PointerUp applies the final position and commits the gesture
func (t *Timeline) PointerUp(x float64) error {
	t.mu.Lock()
	if t.state == Idle || t.committing {
		t.mu.Unlock()
		return nil
	}
	t.moveLocked(x)
	return t.commitLocked()
}

// PointerCancel commits the gesture as last proposed
func (t *Timeline) PointerCancel() error {
	t.mu.Lock()
	if t.state == Idle || t.committing {
		t.mu.Unlock()
		return nil
	}
	return t.commitLocked()
}

// commitLocked is entered with mu held and releases it before calling the editor
func (t *Timeline) commitLocked() error {
	t.committing = true
	state, d := t.state, t.drag
	t.state = Idle
	t.drag = drag{}
	t.detachLocked()
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.committing = false
		t.mu.Unlock()
	}()

	switch state {
	case Resizing:
		startChanged := math.Abs(d.currentStart-d.initialStart) > ChangeTolerance
		endChanged := math.Abs(d.currentEnd-d.initialEnd) > ChangeTolerance
		if !startChanged && !endChanged {
			return nil
		}
		t.logger.Debug("resize committed",
			zap.String("section_id", d.sectionID),
			zap.Float64("start", d.currentStart),
			zap.Float64("end", d.currentEnd))
		return t.editor.UpdateSection(d.sectionID, d.currentStart, d.currentEnd)
	case Creating:
		// Shorter gestures are accidental clicks
		if d.rawEnd-d.rawStart < t.minDuration-1e-9 {
			return nil
		}
		t.logger.Debug("create committed",
			zap.Float64("start", d.rawStart),
			zap.Float64("end", d.rawEnd))
		return t.editor.CreateSection(DefaultName(d.rawStart), d.rawStart, d.rawEnd)
	}
	return nil
}

// Close abandons any drag without committing and removes window listeners
func (t *Timeline) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = Idle
	t.drag = drag{}
	t.detachLocked()
}

// PendingRange returns the proposed range of an in-progress create gesture
func (t *Timeline) PendingRange() (models.CandidateRange, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Creating || t.drag.currentEnd <= t.drag.currentStart {
		return models.CandidateRange{}, false
	}
	return models.CandidateRange{StartSeconds: t.drag.currentStart, EndSeconds: t.drag.currentEnd}, true
}

// DefaultName names a section created on the timeline
func DefaultName(startSeconds float64) string {
	return "Section " + FormatTime(startSeconds)
}

func (t *Timeline) attachLocked() {
	if !t.attached {
		t.listeners.Attach(t)
		t.attached = true
	}
}

func (t *Timeline) detachLocked() {
	if t.attached {
		t.listeners.Detach(t)
		t.attached = false
	}
}

func (t *Timeline) findSection(id string) int {
	for i := range t.sections {
		if t.sections[i].ID == id {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
