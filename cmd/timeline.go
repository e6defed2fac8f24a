package cmd

import (
	"fmt"
	"strings"

	"github.com/killallgit/songpeaks/internal/services/favorites"
	"github.com/killallgit/songpeaks/internal/timeline"
	"github.com/spf13/cobra"
)

func newTimelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline <videoId>",
		Short: "Draw the sections of a favorite on a text timeline",
		Long: `Draw the sections of a favorite as bars on a text track.

--create and --resize replay a drag gesture on the track before drawing:
  --create 1:10-1:25          drag across the track to create a section
  --resize <id>:end:1:40      drag the end handle of a section to 1:40`,
		Args: cobra.ExactArgs(1),
		RunE: runTimeline,
	}
	cmd.Flags().Int("width", 60, "track width in columns")
	cmd.Flags().String("create", "", "create a section by dragging from START to END")
	cmd.Flags().String("resize", "", "resize a section edge: <sectionId>:<start|end>:<time>")
	return cmd
}

func runTimeline(cmd *cobra.Command, args []string) error {
	videoID, err := videoIDArg(args[0])
	if err != nil {
		return err
	}
	width, _ := cmd.Flags().GetInt("width")
	create, _ := cmd.Flags().GetString("create")
	resize, _ := cmd.Flags().GetString("resize")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	fav, err := a.favorites.Get(ctx, videoID)
	if err != nil {
		return err
	}
	if !fav.HasTimeline() {
		return fmt.Errorf("%s: %w", videoID, timeline.ErrNoDuration)
	}

	track := timeline.Track{Left: 0, Width: float64(width)}
	tl, err := timeline.New(fav.Duration(), track, favorites.NewSectionEditor(ctx, a.favorites, videoID),
		timeline.WithMinSectionSeconds(a.cfg.Timeline.MinSectionSeconds),
		timeline.WithLogger(a.logger.Named("timeline")))
	if err != nil {
		return err
	}
	defer tl.Close()
	tl.SetSections(fav.Sections)

	switch {
	case create != "":
		if err := replayCreate(tl, track, create); err != nil {
			return err
		}
	case resize != "":
		if err := replayResize(tl, track, resize); err != nil {
			return err
		}
	}

	if create != "" || resize != "" {
		if fav, err = a.favorites.Get(ctx, videoID); err != nil {
			return err
		}
		tl.SetSections(fav.Sections)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, fav.Title)
	fmt.Fprint(out, tl.RenderText(width))
	return nil
}

// trackX maps a time to the track position a pointer would be at
func trackX(tl *timeline.Timeline, track timeline.Track, seconds float64) float64 {
	return track.Left + tl.Pct(seconds)/100*track.Width
}

func replayCreate(tl *timeline.Timeline, track timeline.Track, arg string) error {
	from, to, ok := strings.Cut(arg, "-")
	if !ok {
		return fmt.Errorf("--create wants START-END, got %q", arg)
	}
	start, err := secondsArg(from)
	if err != nil {
		return err
	}
	end, err := secondsArg(to)
	if err != nil {
		return err
	}

	if !tl.PointerDownTrack(trackX(tl, track, start)) {
		return fmt.Errorf("track is not accepting gestures")
	}
	x := trackX(tl, track, end)
	tl.PointerMove(x)
	return tl.PointerUp(x)
}

func replayResize(tl *timeline.Timeline, track timeline.Track, arg string) error {
	parts := strings.SplitN(arg, ":", 3)
	if len(parts) != 3 {
		return fmt.Errorf("--resize wants <sectionId>:<start|end>:<time>, got %q", arg)
	}
	var edge timeline.Edge
	switch parts[1] {
	case "start":
		edge = timeline.EdgeStart
	case "end":
		edge = timeline.EdgeEnd
	default:
		return fmt.Errorf("unknown edge %q", parts[1])
	}
	target, err := secondsArg(parts[2])
	if err != nil {
		return err
	}

	var from float64
	for _, bar := range tl.Bars() {
		if bar.SectionID == parts[0] {
			from = track.Left + bar.LeftPct/100*track.Width
			if edge == timeline.EdgeEnd {
				from += bar.WidthPct / 100 * track.Width
			}
		}
	}
	if !tl.PointerDownHandle(parts[0], edge, from) {
		return favorites.ErrSectionNotFound
	}
	x := trackX(tl, track, target)
	tl.PointerMove(x)
	return tl.PointerUp(x)
}
