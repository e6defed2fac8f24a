package favorites

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/killallgit/songpeaks/internal/models"
	"go.uber.org/zap"
)

// insertSorted appends section unless its range duplicates an existing one,
// then restores ascending start order
func insertSorted(fav *models.FavoriteSong, section models.Section) bool {
	if fav.FindSectionByRange(section.StartSeconds, section.EndSeconds) >= 0 {
		return false
	}
	fav.Sections = append(fav.Sections, section)
	sortSections(fav.Sections)
	return true
}

func sortSections(sections []models.Section) {
	sort.SliceStable(sections, func(a, b int) bool {
		return sections[a].StartSeconds < sections[b].StartSeconds
	})
}

func validRange(start, end float64) bool {
	if math.IsNaN(start) || math.IsNaN(end) || math.IsInf(start, 0) || math.IsInf(end, 0) {
		return false
	}
	return start >= 0 && end > start
}

// PromotedName is the default name of the suggestion at index
func PromotedName(index int) string {
	return fmt.Sprintf("Peak %d", index+1)
}

// InsertSection stores section as given. A range duplicating an existing
// section is a no-op reported as false.
func (s *ServiceImpl) InsertSection(ctx context.Context, videoID string, section models.Section) (bool, error) {
	if !validRange(section.StartSeconds, section.EndSeconds) {
		return false, ErrInvalidRange
	}
	if section.ID == "" {
		section.ID = s.newID()
	}

	inserted := false
	err := s.mutateFavorite(ctx, "insert_section", videoID, func(fav *models.FavoriteSong) error {
		inserted = insertSorted(fav, section)
		return nil
	})
	return inserted, err
}

// PromoteCandidate saves a suggestion as a section named "Peak N"
func (s *ServiceImpl) PromoteCandidate(ctx context.Context, videoID string, candidate models.CandidateRange, index int) (*models.Section, bool, error) {
	section := models.Section{
		ID:           s.newID(),
		Name:         PromotedName(index),
		StartSeconds: candidate.StartSeconds,
		EndSeconds:   candidate.EndSeconds,
	}
	inserted, err := s.InsertSection(ctx, videoID, section)
	if err != nil {
		return nil, false, err
	}
	return &section, inserted, nil
}

// CreateSection saves a user named range, as entered manually or marked
// during playback
func (s *ServiceImpl) CreateSection(ctx context.Context, videoID, name string, start, end float64) (*models.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !validRange(start, end) {
		return nil, ErrInvalidRange
	}

	section := models.Section{ID: s.newID(), Name: name, StartSeconds: start, EndSeconds: end}
	inserted, err := s.InsertSection(ctx, videoID, section)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, ErrDuplicateSection
	}
	return &section, nil
}

// UpdateSection replaces the bounds of a section, keeping its id and name
func (s *ServiceImpl) UpdateSection(ctx context.Context, videoID, sectionID string, start, end float64) (*models.Section, error) {
	if !validRange(start, end) {
		return nil, ErrInvalidRange
	}

	var updated models.Section
	err := s.mutateFavorite(ctx, "update_section", videoID, func(fav *models.FavoriteSong) error {
		i := fav.FindSection(sectionID)
		if i < 0 {
			return ErrSectionNotFound
		}
		fav.Sections[i].StartSeconds = start
		fav.Sections[i].EndSeconds = end
		updated = fav.Sections[i]
		sortSections(fav.Sections)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveSection deletes a section and clears playback bound to it
func (s *ServiceImpl) RemoveSection(ctx context.Context, videoID, sectionID string) error {
	err := s.mutateFavorite(ctx, "remove_section", videoID, func(fav *models.FavoriteSong) error {
		i := fav.FindSection(sectionID)
		if i < 0 {
			return ErrSectionNotFound
		}
		fav.Sections = append(fav.Sections[:i], fav.Sections[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	if s.playback != nil && s.playback.ClearIfSection(videoID, sectionID) {
		s.logger.Debug("cleared playback of removed section",
			zap.String("video_id", videoID), zap.String("section_id", sectionID))
	}
	return nil
}

// ToggleSuggestion removes the saved section matching suggestion index, or
// promotes the suggestion when none matches. It reports whether the
// suggestion is saved afterwards.
func (s *ServiceImpl) ToggleSuggestion(ctx context.Context, videoID string, index int) (bool, error) {
	fav, err := s.Get(ctx, videoID)
	if err != nil {
		return false, err
	}
	if index < 0 || index >= len(fav.OriginalSuggestions) {
		return false, ErrSuggestionIndex
	}
	candidate := fav.OriginalSuggestions[index]

	if i := fav.FindSectionByRange(candidate.StartSeconds, candidate.EndSeconds); i >= 0 {
		if err := s.RemoveSection(ctx, videoID, fav.Sections[i].ID); err != nil {
			return false, err
		}
		return false, nil
	}

	if _, _, err := s.PromoteCandidate(ctx, videoID, candidate, index); err != nil {
		return false, err
	}
	return true, nil
}

// IsSuggestionSaved reports whether suggestion index already exists as a section
func (s *ServiceImpl) IsSuggestionSaved(ctx context.Context, videoID string, index int) (bool, error) {
	fav, err := s.Get(ctx, videoID)
	if err != nil {
		return false, err
	}
	if index < 0 || index >= len(fav.OriginalSuggestions) {
		return false, ErrSuggestionIndex
	}
	candidate := fav.OriginalSuggestions[index]
	return fav.FindSectionByRange(candidate.StartSeconds, candidate.EndSeconds) >= 0, nil
}
