package cli

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/pktechnic/erpdoc/internal/adapters/driving/watcher"
	"github.com/pktechnic/erpdoc/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Parse documents dropped into an inbox directory",
	Long: `Watch an inbox directory and parse every supported file written to it.

The directory defaults to watch.dir from the configuration. Parsed files
are moved to --processed (or watch.processed_dir) when one is set. Runs
until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("processed", "", "Move parsed files to this directory")
	watchCmd.Flags().Bool("publish", false, "Send records to the webhook")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if parseService == nil {
		return fmt.Errorf("watch: %w", errNotConfigured)
	}

	cfg := watchConfig
	if len(args) == 1 {
		cfg.Dir = args[0]
	}
	if processed, _ := cmd.Flags().GetString("processed"); processed != "" {
		cfg.ProcessedDir = processed
	}
	if cmd.Flags().Changed("publish") {
		cfg.Publish, _ = cmd.Flags().GetBool("publish")
	}
	if cfg.Dir == "" {
		return fmt.Errorf("no inbox directory; pass one or set watch.dir: %w", domain.ErrNotConfigured)
	}

	out := cmd.OutOrStdout()
	st := stylesFor(out)
	var mu sync.Mutex
	handler := func(path string, rec *domain.Record, err error) {
		mu.Lock()
		defer mu.Unlock()
		name := filepath.Base(path)
		switch {
		case err != nil:
			fmt.Fprintln(out, st.Error.Render(fmt.Sprintf("✗ %s: %v", name, err)))
		case rec.Result.Success:
			fmt.Fprintln(out, st.Success.Render(fmt.Sprintf("✓ %s  %s  %s", name, rec.Result.Meta.Number, rec.ID)))
		default:
			fmt.Fprintln(out, st.Warning.Render(fmt.Sprintf("! %s  extraction failed  %s", name, rec.ID)))
		}
	}

	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", cfg.Dir)
	return watcher.New(parseService, cfg, handler).Run(cmd.Context())
}
