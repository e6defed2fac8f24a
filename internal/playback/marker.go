package playback

import (
	"context"
	"strings"
	"sync"

	"github.com/killallgit/songpeaks/internal/models"
	apperrors "github.com/killallgit/songpeaks/pkg/errors"
)

var (
	ErrCannotMark   = apperrors.New(apperrors.ErrCodeValidation, "Play or pause a song to mark a section.")
	ErrStartNotSet  = apperrors.New(apperrors.ErrCodeValidation, "Start not set/end before start.")
	ErrInvalidMarks = apperrors.New(apperrors.ErrCodeValidation, "Invalid times/no song.")
	ErrNameRequired = apperrors.New(apperrors.ErrCodeMissingField, "Enter name.")
)

// SectionCreator persists a marked section
type SectionCreator interface {
	CreateSection(ctx context.Context, videoID, name string, start, end float64) (*models.Section, error)
}

// Marker records a section from the live playback position
type Marker struct {
	mu      sync.Mutex
	binding *Binding
	creator SectionCreator
	marking bool
	start   *float64
	end     *float64
}

// NewMarker creates a marker that is reset by the binding's lifecycle events
func NewMarker(binding *Binding, creator SectionCreator) *Marker {
	m := &Marker{binding: binding, creator: creator}
	binding.onReset(m.Cancel)
	return m
}

// MarkStart records the current position as the start
func (m *Marker) MarkStart() error {
	if !m.binding.CanMark() {
		return ErrCannotMark
	}
	if _, ok := m.binding.NowPlaying(); !ok {
		return ErrCannotMark
	}
	t := m.binding.CurrentTime()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.start = &t
	m.end = nil
	m.marking = true
	return nil
}

// MarkEnd records the current position as the end
func (m *Marker) MarkEnd() error {
	if !m.binding.CanMark() {
		return ErrCannotMark
	}
	t := m.binding.CurrentTime()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.marking || m.start == nil || t <= *m.start {
		return ErrStartNotSet
	}
	m.end = &t
	m.marking = false
	return nil
}

// Marks returns the recorded bounds
func (m *Marker) Marks() (start, end *float64, marking bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.start, m.end, m.marking
}

// Save stores the marked range as a section of the playing video
func (m *Marker) Save(ctx context.Context, name string) (*models.Section, error) {
	np, playing := m.binding.NowPlaying()

	m.mu.Lock()
	start, end := m.start, m.end
	m.mu.Unlock()

	if start == nil || end == nil || *end <= *start || !playing {
		return nil, ErrInvalidMarks
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}

	section, err := m.creator.CreateSection(ctx, np.VideoID, name, *start, *end)
	if err != nil {
		return nil, err
	}
	m.Cancel()
	return section, nil
}

// Cancel discards any marks
func (m *Marker) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marking = false
	m.start = nil
	m.end = nil
}
