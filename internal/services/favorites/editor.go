package favorites

import (
	"context"

	"github.com/killallgit/songpeaks/internal/models"
)

// SectionEditor commits timeline gestures for one favorite
type SectionEditor struct {
	ctx     context.Context
	svc     Service
	videoID string
}

// NewSectionEditor binds svc to videoID for timeline commits
func NewSectionEditor(ctx context.Context, svc Service, videoID string) *SectionEditor {
	return &SectionEditor{ctx: ctx, svc: svc, videoID: videoID}
}

// UpdateSection applies a resize gesture
func (e *SectionEditor) UpdateSection(id string, start, end float64) error {
	_, err := e.svc.UpdateSection(e.ctx, e.videoID, id, start, end)
	return err
}

// CreateSection applies a create gesture. A duplicate range is dropped silently.
func (e *SectionEditor) CreateSection(name string, start, end float64) error {
	_, err := e.svc.InsertSection(e.ctx, e.videoID, models.Section{
		Name:         name,
		StartSeconds: start,
		EndSeconds:   end,
	})
	return err
}
