package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVideoID = "dQw4w9WgXcQ"

// stubUpstreams starts fake YouTube and heatmap services and points the
// configuration at them
func stubUpstreams(t *testing.T) {
	t.Helper()

	youtubeAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"items":[{"id":%q,"snippet":{"title":"Never Gonna Give You Up","thumbnails":{"medium":{"url":"https://i.ytimg.com/vi/%s/mqdefault.jpg"}}},"contentDetails":{"duration":"PT3M33S"}}]}`,
			r.URL.Query().Get("id"), r.URL.Query().Get("id"))
	}))
	t.Cleanup(youtubeAPI.Close)

	heatmapAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var markers []map[string]any
		for ms := 0; ms <= 60_000; ms += 1_000 {
			intensity := 0.05
			if ms >= 30_000 && ms < 50_000 {
				intensity = 0.9
			}
			markers = append(markers, map[string]any{"startMillis": ms, "intensityScoreNormalized": intensity})
		}
		body, _ := json.Marshal(map[string]any{
			"items": []map[string]any{{
				"videoId":      r.URL.Query().Get("id"),
				"mostReplayed": map[string]any{"markers": markers},
			}},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(heatmapAPI.Close)

	t.Setenv("SONGPEAKS_YOUTUBE_API_KEY", "test-key")
	t.Setenv("SONGPEAKS_YOUTUBE_BASE_URL", youtubeAPI.URL)
	t.Setenv("SONGPEAKS_HEATMAP_BASE_URL", heatmapAPI.URL)
}

func TestSuggestCommand(t *testing.T) {
	stubUpstreams(t)
	db := filepath.Join(t.TempDir(), "songpeaks.db")

	out, err := execute(t, "suggest", "https://www.youtube.com/watch?v="+testVideoID, "--db", db)
	require.NoError(t, err)

	var data struct {
		Title           string  `json:"title"`
		DurationSeconds float64 `json:"durationSeconds"`
		SuggestedChunks []struct {
			StartSeconds float64 `json:"startSeconds"`
			EndSeconds   float64 `json:"endSeconds"`
		} `json:"suggestedChunks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Equal(t, "Never Gonna Give You Up", data.Title)
	assert.Equal(t, 213.0, data.DurationSeconds)
	require.NotEmpty(t, data.SuggestedChunks)
	assert.Equal(t, 30.0, data.SuggestedChunks[0].StartSeconds)
	assert.Equal(t, 48.0, data.SuggestedChunks[0].EndSeconds)

	out, err = execute(t, "suggest", testVideoID, "--table", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, " 1. 0:30 - 0:48")
}

func TestFavoritesWorkflow(t *testing.T) {
	stubUpstreams(t)
	db := filepath.Join(t.TempDir(), "songpeaks.db")
	run := func(args ...string) string {
		t.Helper()
		out, err := execute(t, append(args, "--db", db)...)
		require.NoError(t, err, "songpeaks %v", args)
		return out
	}

	out := run("favorites", "list")
	assert.Contains(t, out, "No favorites yet.")

	out = run("favorites", "add", "https://youtu.be/"+testVideoID)
	assert.Contains(t, out, "Added Never Gonna Give You Up ("+testVideoID+")")

	_, err := execute(t, "favorites", "add", testVideoID, "--db", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Already added!")

	out = run("favorites", "list")
	assert.Contains(t, out, testVideoID+"  Never Gonna Give You Up  [3:33, 0 sections]")

	// Suggestions and sections
	out = run("sections", "toggle", testVideoID, "1")
	assert.Contains(t, out, "Suggestion 1 saved")

	out = run("sections", "list", testVideoID)
	assert.Contains(t, out, "Peak 1")
	assert.Contains(t, out, "*  1. 0:30 - 0:48")
	peakID := regexp.MustCompile(`(\S+)  Peak 1`).FindStringSubmatch(out)
	require.Len(t, peakID, 2)

	out = run("sections", "add", testVideoID, "Outro", "3:00", "3:20")
	assert.Contains(t, out, `"Outro" (3:00 - 3:20)`)

	_, err = execute(t, "sections", "add", testVideoID, "Broken", "20", "10", "--db", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid times.")

	out = run("sections", "update", testVideoID, peakID[1], "0:31", "0:49")
	assert.Contains(t, out, `Updated "Peak 1" (0:31 - 0:49)`)

	// The suggestion no longer matches a saved range, so toggling saves it again
	out = run("sections", "toggle", testVideoID, "1")
	assert.Contains(t, out, "Suggestion 1 saved")
	out = run("sections", "toggle", testVideoID, "1")
	assert.Contains(t, out, "Suggestion 1 removed")

	// Timeline gestures
	out = run("timeline", testVideoID, "--width", "40", "--create", "1:00-1:10")
	assert.Regexp(t, `Section (0:59|1:00) \((0:59|1:00) - 1:(09|10)\)`, out)
	assert.Contains(t, out, "3:33")

	out = run("timeline", testVideoID, "--resize", peakID[1]+":end:0:55")
	assert.Contains(t, out, "Peak 1 (0:31 - 0:5")

	out = run("sections", "list", testVideoID)
	assert.Regexp(t, `Section (0:59|1:00)`, out)
	assert.Contains(t, out, "Outro")

	// Playback
	out = run("play", testVideoID, "--suggestion", "1")
	assert.Contains(t, out, "https://www.youtube.com/embed/"+testVideoID+"?autoplay=1&end=48&start=30")
	out = run("play", testVideoID, "--section", peakID[1])
	assert.Contains(t, out, "start=31")
	out = run("play", testVideoID)
	assert.Contains(t, out, "https://www.youtube.com/embed/"+testVideoID+"?autoplay=1\n")

	// Playlists
	out = run("playlists", "create", "Road", "trip")
	playlistID := regexp.MustCompile(`Created "Road trip" \((\S+)\)`).FindStringSubmatch(out)
	require.Len(t, playlistID, 2)

	run("playlists", "add", playlistID[1], testVideoID)
	out = run("playlists", "list")
	assert.Contains(t, out, "Road trip  (1 songs)")

	_, err = execute(t, "playlists", "add", playlistID[1], "aaaaaaaaaaa", "--db", db)
	assert.Error(t, err)

	// Removing the favorite prunes it from playlists
	out = run("favorites", "remove", testVideoID)
	assert.Contains(t, out, "Removed "+testVideoID)
	out = run("playlists", "list")
	assert.Contains(t, out, "Road trip  (0 songs)")

	out = run("migrate", "status")
	assert.Contains(t, out, "favoriteSongs")
	assert.Contains(t, out, "playlists")

	_, err = execute(t, "migrate", "reset", "playlists", "--db", db)
	assert.Error(t, err)
	out = run("migrate", "reset", "playlists", "--yes")
	assert.Contains(t, out, "Deleted slot playlists")
	out = run("playlists", "list")
	assert.Contains(t, out, "No playlists yet.")
}

func TestPlayMarkSession(t *testing.T) {
	stubUpstreams(t)
	db := filepath.Join(t.TempDir(), "songpeaks.db")

	_, err := execute(t, "favorites", "add", testVideoID, "--db", db)
	require.NoError(t, err)

	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(strings.Join([]string{
		"save Nothing",
		"end 0:20",
		"start 1:10",
		"end 1:05",
		"end 1:22",
		"save",
		"save Bridge",
		"start 2:00",
		"ended",
		"end 2:10",
		"error 150",
		"quit",
		"start 0:01",
	}, "\n")))
	cmd.SetArgs([]string{"play", testVideoID, "--mark", "--db", db})
	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.Contains(t, text, "https://www.youtube.com/embed/"+testVideoID+"?autoplay=1")
	assert.Contains(t, text, "Error: Invalid times/no song.")
	assert.Contains(t, text, "Error: Start not set/end before start.")
	assert.Contains(t, text, "Marked start at 1:10")
	assert.Contains(t, text, "Marked end at 1:22")
	assert.Contains(t, text, "Error: Enter name.")
	assert.Contains(t, text, `Saved "Bridge" (1:10 - 1:22)`)
	assert.Contains(t, text, "Playback ended")
	assert.Contains(t, text, "Embedding disabled for this video.")
	// Input after quit is never read
	assert.NotContains(t, text, "Marked start at 0:01")
	// Ending the video cleared the start mark, so the last end fails
	assert.Equal(t, 1, strings.Count(text, "Marked end at"))

	listing, err := execute(t, "sections", "list", testVideoID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, listing, "Bridge")
	assert.Contains(t, listing, "1:10 - 1:22")
}
