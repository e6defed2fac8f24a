package cmd

import (
	"fmt"
	"os"

	"github.com/killallgit/songpeaks/pkg/config"
	"github.com/spf13/cobra"
)

// skipConfig marks commands that run without loading configuration
const skipConfig = "skip-config"

var rootCmd = NewRootCmd()

// NewRootCmd builds the command tree. Each call returns a fresh tree so
// flag state never leaks between invocations.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "songpeaks",
		Short: "Most-replayed section finder for YouTube songs",
		Long: `SongPeaks - find and keep the best parts of songs

SongPeaks reads the "most replayed" heatmap of a YouTube video and turns
its peaks into suggested sections. Songs can be saved as favorites, their
sections edited on a timeline, and favorites grouped into playlists.

Features:
  • Suggested sections from most-replayed heatmaps
  • Favorites with named, editable sections
  • Text timeline with create and resize gestures
  • Playlists of favorites
  • HTTP API serving derived video data`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}

	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
	root.PersistentFlags().String("db", "", "path of the SQLite storage file (overrides config)")

	root.AddCommand(
		newServeCmd(),
		newVersionCmd(),
		newMigrateCmd(),
		newSuggestCmd(),
		newFavoritesCmd(),
		newSectionsCmd(),
		newPlaylistsCmd(),
		newTimelineCmd(),
		newPlayCmd(),
	)
	return root
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig initializes configuration and applies persistent flag overrides
func loadConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}

	if err := config.Init(); err != nil {
		return fmt.Errorf("error initializing config: %w", err)
	}

	flags := cmd.Flags()
	if f := flags.Lookup("log-level"); f != nil && f.Changed {
		config.Set("logging.level", f.Value.String())
	}
	if jsonLogs, _ := flags.GetBool("json-logs"); jsonLogs {
		config.Set("logging.format", "json")
	}
	if f := flags.Lookup("db"); f != nil && f.Changed {
		config.Set("storage.path", f.Value.String())
	}
	return nil
}
