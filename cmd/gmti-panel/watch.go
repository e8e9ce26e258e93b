package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gmti-panel/internal/config"
	"gmti-panel/internal/logging"
	"gmti-panel/internal/remote"
)

var (
	watchPrintOnly bool
	watchLogFile   string
	watchInterval  time.Duration
	watchLabel     string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll engine snapshots without the TUI",
	Long:  "watch polls the engine's snapshot endpoint on an interval and streams rows to STDOUT, a file, or GreptimeDB. The engine must already be running.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath, schemaPath)
		if err != nil {
			return err
		}

		writer, cleanup, err := newWriters(watchPrintOnly, watchLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		interval := cfg.PollInterval.Std()
		if watchInterval > 0 {
			interval = watchInterval
		}

		logger := logging.New(debugLog)
		poller := remote.NewPoller(remote.NewClient(cfg.Endpoint), interval, uuid.New().String(), writer)
		if watchLabel != "" {
			poller.SetLabel(watchLabel)
		}

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logger))
		defer cancel()
		go poller.Run(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		cancel()
		logger.Info("watch stopped")
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchPrintOnly, "print-only", false, "Print snapshots to STDOUT instead of writing to DB")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "Path to export snapshots (JSONL)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Poll interval override (e.g. 500ms, 2s)")
	watchCmd.Flags().StringVar(&watchLabel, "label", "", "Scenario label to attach to recorded rows")
}
