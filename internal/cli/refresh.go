package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/projdash/internal/engine"
)

var refreshFilesOnly bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Record what the editor session has open",
	Long: `Read the editor session file once and record its open external files
and, unless --files-only is given, its workspace folders.

Paths that no longer exist and paths already in the list are skipped. Nothing
is recorded while showRecentGroup is false in config.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		result, err := eng.Refresh(context.Background(), &engine.RefreshRequest{
			FilesOnly: refreshFilesOnly,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, result)
		}
		if !result.Enabled {
			PrintWarning(out, "Recent tracking is disabled (showRecentGroup)")
			return nil
		}
		if len(result.Added) == 0 {
			PrintInfo(out, "Nothing new to record")
			return nil
		}

		PrintSuccess(out, fmt.Sprintf("Recorded %s", PrintCount(len(result.Added), "entry", "entries")))
		for _, item := range result.Added {
			PrintLabelValue(out, string(item.Kind), item.Path)
		}
		return nil
	},
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshFilesOnly, "files-only", false, "Skip workspace folders")
}
