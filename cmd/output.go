package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/killallgit/songpeaks/internal/models"
	"github.com/killallgit/songpeaks/internal/services/favorites"
	"github.com/killallgit/songpeaks/internal/services/youtube"
	"github.com/killallgit/songpeaks/internal/timeline"
	apperrors "github.com/killallgit/songpeaks/pkg/errors"
)

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// videoIDArg accepts a video id or any supported YouTube URL
func videoIDArg(arg string) (string, error) {
	id, ok := youtube.ParseVideoRef(arg)
	if !ok {
		return "", favorites.ErrInvalidURL
	}
	return id, nil
}

// suggestionArg parses the 1-based suggestion number shown by listings
func suggestionArg(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, apperrors.ValidationError("suggestion", "must be a positive number")
	}
	return n - 1, nil
}

// secondsArg parses a time given as seconds ("83.5") or M:SS ("1:23.5")
func secondsArg(arg string) (float64, error) {
	minutes, rest, found := strings.Cut(arg, ":")
	if !found {
		return strconv.ParseFloat(arg, 64)
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("invalid time %q", arg)
	}
	s, err := strconv.ParseFloat(rest, 64)
	if err != nil || s < 0 || s >= 60 {
		return 0, fmt.Errorf("invalid time %q", arg)
	}
	return float64(m)*60 + s, nil
}

func formatRange(start, end float64) string {
	return timeline.FormatTime(start) + " - " + timeline.FormatTime(end)
}

func printFavorite(w io.Writer, fav models.FavoriteSong) {
	duration := "unknown"
	if fav.HasTimeline() {
		duration = timeline.FormatTime(fav.Duration())
	}
	fmt.Fprintf(w, "%s  %s  [%s, %d sections]\n", fav.VideoID, fav.Title, duration, len(fav.Sections))
}
