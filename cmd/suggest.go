package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <videoId|url>",
		Short: "Show derived data and suggested sections for a video",
		Long: `Run the derived-data pipeline for a video: title, thumbnail and duration
from the YouTube Data API, and suggested sections from the most-replayed
heatmap. The result is printed as the JSON the HTTP endpoint returns.`,
		Args: cobra.ExactArgs(1),
		RunE: runSuggest,
	}
	cmd.Flags().Bool("table", false, "print suggestions as a table instead of JSON")
	return cmd
}

func runSuggest(cmd *cobra.Command, args []string) error {
	videoID, err := videoIDArg(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := a.videoData.Fetch(cmd.Context(), videoID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if table, _ := cmd.Flags().GetBool("table"); !table {
		return writeJSON(out, data)
	}

	fmt.Fprintln(out, data.Title)
	for i, chunk := range data.SuggestedChunks {
		fmt.Fprintf(out, "%2d. %s\n", i+1, formatRange(chunk.StartSeconds, chunk.EndSeconds))
	}
	if w := data.Warning(); w != "" {
		fmt.Fprintf(out, "Note: %s\n", w)
	}
	return nil
}
