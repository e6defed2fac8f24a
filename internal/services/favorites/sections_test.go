package favorites

import (
	"context"
	"math"
	"testing"

	"github.com/killallgit/songpeaks/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTimes(sections []models.Section) []float64 {
	out := make([]float64, len(sections))
	for i, s := range sections {
		out[i] = s.StartSeconds
	}
	return out
}

func TestService_InsertSection_SortsAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, fetcher, _ := newTestService(t)
	addFavorite(t, svc, fetcher)

	for _, r := range [][2]float64{{60, 70}, {10, 20}, {40, 50}} {
		inserted, err := svc.InsertSection(ctx, testVideoID, models.Section{Name: "x", StartSeconds: r[0], EndSeconds: r[1]})
		require.NoError(t, err)
		assert.True(t, inserted)
	}

	inserted, err := svc.InsertSection(ctx, testVideoID, models.Section{Name: "dup", StartSeconds: 10.005, EndSeconds: 19.995})
	require.NoError(t, err)
	assert.False(t, inserted)

	inserted, err = svc.InsertSection(ctx, testVideoID, models.Section{Name: "near", StartSeconds: 10.05, EndSeconds: 20})
	require.NoError(t, err)
	assert.True(t, inserted)

	fav, err := svc.Get(ctx, testVideoID)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 10.05, 40, 60}, startTimes(fav.Sections))
}

func TestService_InsertSection_UnknownFavorite(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.InsertSection(context.Background(), "missing0000", models.Section{StartSeconds: 1, EndSeconds: 2})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_PromoteCandidate(t *testing.T) {
	ctx := context.Background()
	svc, fetcher, _ := newTestService(t)
	addFavorite(t, svc, fetcher)

	section, inserted, err := svc.PromoteCandidate(ctx, testVideoID, models.CandidateRange{StartSeconds: 120, EndSeconds: 135}, 1)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "Peak 2", section.Name)
	assert.NotEmpty(t, section.ID)

	_, inserted, err = svc.PromoteCandidate(ctx, testVideoID, models.CandidateRange{StartSeconds: 120, EndSeconds: 135}, 1)
	require.NoError(t, err)
	assert.False(t, inserted)

	fav, err := svc.Get(ctx, testVideoID)
	require.NoError(t, err)
	assert.Len(t, fav.Sections, 1)
}

func TestService_CreateSection_Validation(t *testing.T) {
	ctx := context.Background()
	svc, fetcher, _ := newTestService(t)
	addFavorite(t, svc, fetcher)

	tests := []struct {
		name       string
		label      string
		start, end float64
		wantErr    error
	}{
		{"blank name", "   ", 1, 2, ErrNameRequired},
		{"negative start", "Intro", -1, 2, ErrInvalidRange},
		{"end before start", "Intro", 5, 5, ErrInvalidRange},
		{"nan", "Intro", math.NaN(), 5, ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSection(ctx, testVideoID, tt.label, tt.start, tt.end)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	section, err := svc.CreateSection(ctx, testVideoID, "  Chorus ", 61, 75.5)
	require.NoError(t, err)
	assert.Equal(t, "Chorus", section.Name)

	_, err = svc.CreateSection(ctx, testVideoID, "Again", 61, 75.5)
	assert.ErrorIs(t, err, ErrDuplicateSection)
}

func TestService_UpdateSection_PreservesIdentityAndResorts(t *testing.T) {
	ctx := context.Background()
	svc, fetcher, _ := newTestService(t)
	addFavorite(t, svc, fetcher)

	first, err := svc.CreateSection(ctx, testVideoID, "First", 10, 20)
	require.NoError(t, err)
	_, err = svc.CreateSection(ctx, testVideoID, "Second", 30, 40)
	require.NoError(t, err)

	updated, err := svc.UpdateSection(ctx, testVideoID, first.ID, 50, 55)
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "First", updated.Name)

	fav, err := svc.Get(ctx, testVideoID)
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 50}, startTimes(fav.Sections))
	assert.Equal(t, "First", fav.Sections[1].Name)

	_, err = svc.UpdateSection(ctx, testVideoID, first.ID, 10, 5)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = svc.UpdateSection(ctx, testVideoID, "nope", 1, 5)
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestService_RemoveSection_ClearsPlayback(t *testing.T) {
	ctx := context.Background()
	svc, fetcher, _ := newTestService(t)
	addFavorite(t, svc, fetcher)

	section, err := svc.CreateSection(ctx, testVideoID, "Hook", 10, 20)
	require.NoError(t, err)

	playback := &fakePlayback{videoID: testVideoID, sectionID: section.ID}
	svc.SetPlayback(playback)

	require.NoError(t, svc.RemoveSection(ctx, testVideoID, section.ID))
	assert.Empty(t, playback.sectionID)

	fav, err := svc.Get(ctx, testVideoID)
	require.NoError(t, err)
	assert.Empty(t, fav.Sections)

	assert.ErrorIs(t, svc.RemoveSection(ctx, testVideoID, section.ID), ErrSectionNotFound)
}

func TestService_RemoveSection_OtherPlaybackUntouched(t *testing.T) {
	ctx := context.Background()
	svc, fetcher, _ := newTestService(t)
	addFavorite(t, svc, fetcher)

	section, err := svc.CreateSection(ctx, testVideoID, "Hook", 10, 20)
	require.NoError(t, err)

	playback := &fakePlayback{videoID: testVideoID, sectionID: "another"}
	svc.SetPlayback(playback)
	require.NoError(t, svc.RemoveSection(ctx, testVideoID, section.ID))
	assert.Equal(t, "another", playback.sectionID)
}

func TestService_ToggleSuggestion(t *testing.T) {
	ctx := context.Background()
	svc, fetcher, _ := newTestService(t)
	addFavorite(t, svc, fetcher)

	saved, err := svc.IsSuggestionSaved(ctx, testVideoID, 0)
	require.NoError(t, err)
	assert.False(t, saved)

	saved, err = svc.ToggleSuggestion(ctx, testVideoID, 0)
	require.NoError(t, err)
	assert.True(t, saved)

	fav, err := svc.Get(ctx, testVideoID)
	require.NoError(t, err)
	require.Len(t, fav.Sections, 1)
	assert.Equal(t, "Peak 1", fav.Sections[0].Name)

	saved, err = svc.IsSuggestionSaved(ctx, testVideoID, 0)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = svc.ToggleSuggestion(ctx, testVideoID, 0)
	require.NoError(t, err)
	assert.False(t, saved)

	fav, err = svc.Get(ctx, testVideoID)
	require.NoError(t, err)
	assert.Empty(t, fav.Sections)

	_, err = svc.ToggleSuggestion(ctx, testVideoID, 5)
	assert.ErrorIs(t, err, ErrSuggestionIndex)
}

func TestSectionEditor(t *testing.T) {
	ctx := context.Background()
	svc, fetcher, _ := newTestService(t)
	addFavorite(t, svc, fetcher)
	editor := NewSectionEditor(ctx, svc, testVideoID)

	require.NoError(t, editor.CreateSection("Section 0:12", 12, 20))
	require.NoError(t, editor.CreateSection("Section 0:12", 12, 20))

	fav, err := svc.Get(ctx, testVideoID)
	require.NoError(t, err)
	require.Len(t, fav.Sections, 1)
	assert.Equal(t, "Section 0:12", fav.Sections[0].Name)

	require.NoError(t, editor.UpdateSection(fav.Sections[0].ID, 11, 22))
	fav, err = svc.Get(ctx, testVideoID)
	require.NoError(t, err)
	assert.Equal(t, 11.0, fav.Sections[0].StartSeconds)
	assert.Equal(t, 22.0, fav.Sections[0].EndSeconds)
}
