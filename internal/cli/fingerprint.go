package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint",
	Short: "Print the stored fingerprint of the recent list",
	Long: `Print the fingerprint stored alongside the recent list, or "none" when
the list is empty. Windows compare it to notice changes made elsewhere.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		result := eng.Fingerprint(context.Background())

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, result)
		}
		PrintInfo(out, formatFingerprint(result.Fingerprint))
		return nil
	},
}
