package cmd

import (
	"fmt"

	"github.com/killallgit/songpeaks/internal/playback"
	"github.com/killallgit/songpeaks/internal/services/favorites"
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <videoId>",
		Short: "Print the embed URL that plays a favorite, a section or a suggestion",
		Long: `Resolve a play request and print the YouTube embed URL for it.

Without flags the whole song plays. --section plays a saved section and
--suggestion previews suggestion N, bounded to whole seconds.

--mark keeps the command open to mark a new section while the video plays
in the browser: report the position the player shows and save the range.`,
		Args: cobra.ExactArgs(1),
		RunE: runPlay,
	}
	cmd.Flags().String("section", "", "play a saved section by id")
	cmd.Flags().String("suggestion", "", "preview suggestion N")
	cmd.Flags().Bool("mark", false, "mark a new section interactively")
	cmd.MarkFlagsMutuallyExclusive("section", "suggestion")
	return cmd
}

func runPlay(cmd *cobra.Command, args []string) error {
	videoID, err := videoIDArg(args[0])
	if err != nil {
		return err
	}
	sectionID, _ := cmd.Flags().GetString("section")
	suggestion, _ := cmd.Flags().GetString("suggestion")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fav, err := a.favorites.Get(cmd.Context(), videoID)
	if err != nil {
		return err
	}

	req := playback.Full(videoID)
	label := fav.Title
	switch {
	case sectionID != "":
		i := fav.FindSection(sectionID)
		if i < 0 {
			return favorites.ErrSectionNotFound
		}
		section := fav.Sections[i]
		req = playback.Saved(videoID, section)
		label = fmt.Sprintf("%s: %s (%s)", fav.Title, section.Name, formatRange(section.StartSeconds, section.EndSeconds))
	case suggestion != "":
		index, err := suggestionArg(suggestion)
		if err != nil {
			return err
		}
		if index >= len(fav.OriginalSuggestions) {
			return favorites.ErrSuggestionIndex
		}
		c := fav.OriginalSuggestions[index]
		req = playback.Preview(videoID, c)
		label = fmt.Sprintf("%s: %s (%s)", fav.Title, favorites.PromotedName(index), formatRange(c.StartSeconds, c.EndSeconds))
	}

	if err := a.binding.Play(req); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, label)
	fmt.Fprintln(out, a.player.URL())

	if mark, _ := cmd.Flags().GetBool("mark"); mark {
		return markSession(cmd.Context(), cmd.InOrStdin(), out, a)
	}
	return nil
}
