package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/projdash/internal/engine"
)

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Remove an entry from the recent list",
	Long: `Remove the entry for <path> from the recent list.

Relative paths are resolved against the current directory. Removing a path
that is not in the list does nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		result, err := eng.Remove(context.Background(), &engine.RemoveRequest{
			Path: args[0],
			CWD:  cwd,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, result)
		}
		if !result.Removed {
			PrintWarning(out, fmt.Sprintf("%s is not in the recent list", result.Path))
			return nil
		}
		PrintSuccess(out, fmt.Sprintf("Removed %s", result.Path))
		return nil
	},
}
