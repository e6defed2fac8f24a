package cmd

import (
	"testing"

	"github.com/killallgit/songpeaks/internal/services/favorites"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecondsArg(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"83.5", 83.5, false},
		{"1:23.5", 83.5, false},
		{"0:05", 5, false},
		{"10:00", 600, false},
		{"1:60", 0, true},
		{"-1:10", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := secondsArg(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSuggestionArg(t *testing.T) {
	index, err := suggestionArg("3")
	require.NoError(t, err)
	assert.Equal(t, 2, index)

	_, err = suggestionArg("0")
	assert.Error(t, err)
	_, err = suggestionArg("x")
	assert.Error(t, err)
}

func TestVideoIDArg(t *testing.T) {
	id, err := videoIDArg("https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", id)

	id, err = videoIDArg("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", id)

	_, err = videoIDArg("https://example.com/nothing")
	assert.ErrorIs(t, err, favorites.ErrInvalidURL)
}
