package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/projdash/internal/engine"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Track the editor session until interrupted",
	Long: `Watch the editor session file and record folders and files as they are
opened, while polling for changes other windows make to the shared list.

A line is printed for every change; with --json each line is a JSON object.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		if !jsonOutput {
			PrintInfo(out, "Watching for changes (Ctrl-C to stop)")
		}

		return eng.Watch(ctx, func(list *engine.ListResult) {
			if jsonOutput {
				line, err := json.Marshal(list)
				if err == nil {
					fmt.Fprintln(out, string(line))
				}
				return
			}
			_, _ = dimColor.Fprintf(out, "%s ", time.Now().Format(time.TimeOnly))
			_, _ = infoColor.Fprintf(out, "%s, fingerprint %s\n",
				PrintCount(len(list.Recents), "entry", "entries"),
				formatFingerprint(list.Fingerprint))
		})
	},
}
