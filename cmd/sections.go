package cmd

import (
	"fmt"

	"github.com/killallgit/songpeaks/internal/services/favorites"
	"github.com/spf13/cobra"
)

func newSectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "Manage the sections of a favorite",
		Long: `List, add, edit and remove the named sections of a favorite song.

Suggestions are numbered from 1 as shown by "sections list"; promoting
suggestion N saves it as "Peak N".`,
	}

	cmd.AddCommand(
		newSectionsListCmd(),
		newSectionsAddCmd(),
		newSectionsPromoteCmd(),
		newSectionsUpdateCmd(),
		newSectionsRemoveCmd(),
		newSectionsToggleCmd(),
	)
	return cmd
}

func newSectionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <videoId>",
		Short: "List sections and suggestions of a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := videoIDArg(args[0])
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			fav, err := a.favorites.Get(cmd.Context(), videoID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printFavorite(out, *fav)
			fmt.Fprintln(out, "Sections:")
			if len(fav.Sections) == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			for _, s := range fav.Sections {
				fmt.Fprintf(out, "  %s  %-20s %s\n", s.ID, s.Name, formatRange(s.StartSeconds, s.EndSeconds))
			}

			fmt.Fprintln(out, "Suggestions:")
			if len(fav.OriginalSuggestions) == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			for i, c := range fav.OriginalSuggestions {
				mark := " "
				if fav.FindSectionByRange(c.StartSeconds, c.EndSeconds) >= 0 {
					mark = "*"
				}
				fmt.Fprintf(out, "  %s %2d. %s\n", mark, i+1, formatRange(c.StartSeconds, c.EndSeconds))
			}
			return nil
		},
	}
}

func newSectionsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <videoId> <name> <start> <end>",
		Short: "Add a named section; times are seconds or M:SS",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := videoIDArg(args[0])
			if err != nil {
				return err
			}
			start, err := secondsArg(args[2])
			if err != nil {
				return err
			}
			end, err := secondsArg(args[3])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			section, err := a.favorites.CreateSection(cmd.Context(), videoID, args[1], start, end)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q (%s)\n",
				section.ID, section.Name, formatRange(section.StartSeconds, section.EndSeconds))
			return nil
		},
	}
}

func newSectionsPromoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <videoId> <suggestion>",
		Short: "Save a suggestion as a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := videoIDArg(args[0])
			if err != nil {
				return err
			}
			index, err := suggestionArg(args[1])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			fav, err := a.favorites.Get(cmd.Context(), videoID)
			if err != nil {
				return err
			}
			if index >= len(fav.OriginalSuggestions) {
				return favorites.ErrSuggestionIndex
			}

			section, inserted, err := a.favorites.PromoteCandidate(cmd.Context(), videoID, fav.OriginalSuggestions[index], index)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !inserted {
				fmt.Fprintf(out, "Suggestion %d is already saved\n", index+1)
				return nil
			}
			fmt.Fprintf(out, "Saved %s as %s\n", section.Name, section.ID)
			return nil
		},
	}
}

func newSectionsUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <videoId> <sectionId> <start> <end>",
		Short: "Change the bounds of a section",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := videoIDArg(args[0])
			if err != nil {
				return err
			}
			start, err := secondsArg(args[2])
			if err != nil {
				return err
			}
			end, err := secondsArg(args[3])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			section, err := a.favorites.UpdateSection(cmd.Context(), videoID, args[1], start, end)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q (%s)\n",
				section.Name, formatRange(section.StartSeconds, section.EndSeconds))
			return nil
		},
	}
}

func newSectionsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <videoId> <sectionId>",
		Short: "Remove a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := videoIDArg(args[0])
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.favorites.RemoveSection(cmd.Context(), videoID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed section %s\n", args[1])
			return nil
		},
	}
}

func newSectionsToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <videoId> <suggestion>",
		Short: "Save a suggestion, or remove it when already saved",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := videoIDArg(args[0])
			if err != nil {
				return err
			}
			index, err := suggestionArg(args[1])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			saved, err := a.favorites.ToggleSuggestion(cmd.Context(), videoID, index)
			if err != nil {
				return err
			}
			state := "removed"
			if saved {
				state = "saved"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Suggestion %d %s\n", index+1, state)
			return nil
		},
	}
}
