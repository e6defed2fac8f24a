package cmd

import (
	"fmt"
	"strings"

	"github.com/killallgit/songpeaks/internal/models"
	"github.com/killallgit/songpeaks/internal/services/favorites"
	"github.com/killallgit/songpeaks/internal/services/playlists"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the local storage file",
		Long: `Manage the SQLite file holding the favorites and playlists slots.

Available subcommands:
  up      - Create or update the slot table
  status  - Show stored slots and their sizes
  reset   - Delete one slot`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Create or update the slot table",
		Long: `Create or update the key-value slot table.

Opening the storage file migrates it as well; this command only makes the
step explicit, e.g. before deploying a new version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.db.AutoMigrate(&models.KVEntry{}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Storage ready at %s\n", a.cfg.Storage.Path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show stored slots",
		Long:  `Display the current status of the stored slots: key, size and last write.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.db.ListSlots(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Storage Status")
			fmt.Fprintln(out, strings.Repeat("=", 50))
			fmt.Fprintf(out, "File: %s\n", a.cfg.Storage.Path)
			if len(entries) == 0 {
				fmt.Fprintln(out, "No slots written yet.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "  %-16s %8d bytes  %s\n", e.Key, len(e.Value), e.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	})

	reset := &cobra.Command{
		Use:       "reset <slot>",
		Short:     "Delete one slot",
		Long:      `Delete a stored slot (favoriteSongs or playlists). Requires --yes.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{favorites.SlotKey, playlists.SlotKey},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != favorites.SlotKey && args[0] != playlists.SlotKey {
				return fmt.Errorf("unknown slot %q", args[0])
			}
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return fmt.Errorf("refusing to delete %s without --yes", args[0])
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.db.DeleteSlot(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted slot %s\n", args[0])
			return nil
		},
	}
	reset.Flags().Bool("yes", false, "confirm the deletion")
	cmd.AddCommand(reset)

	return cmd
}
