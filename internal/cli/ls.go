package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List recently opened folders, files and workspaces",
	Long: `Display the shared recent list, most recently added first.

Each entry is shown with its kind: folder, file, workspace, or missing when
the path no longer exists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		list := eng.ListRecents(context.Background())

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, list)
		}

		PrintSection(out, "Recent")
		if len(list.Recents) == 0 {
			PrintEmptyState(out, "No recent entries")
			return nil
		}

		rows := make([][]string, 0, len(list.Recents))
		for _, item := range list.Recents {
			rows = append(rows, []string{item.Name, string(item.Kind), item.Path})
		}
		PrintTable(out, []string{"Name", "Kind", "Path"}, rows, func(row, col int) *color.Color {
			if col != 1 {
				return nil
			}
			return kindColors[list.Recents[row].Kind]
		})
		fmt.Fprintln(out)
		PrintLabelValue(out, "Entries", PrintCount(len(list.Recents), "entry", "entries"))
		PrintLabelValue(out, "Fingerprint", formatFingerprint(list.Fingerprint))
		return nil
	},
}
