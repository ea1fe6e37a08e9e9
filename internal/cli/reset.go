package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the recent list",
	Long: `Remove every entry from the recent list.

Other editor windows watching the list are notified.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		result, err := eng.Reset(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, result)
		}
		PrintSuccess(out, fmt.Sprintf("Cleared %s", PrintCount(result.Cleared, "entry", "entries")))
		return nil
	},
}
