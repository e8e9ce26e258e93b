package main

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gmti-panel/internal/config"
	"gmti-panel/internal/engine"
	"gmti-panel/internal/logging"
	"gmti-panel/internal/panel"
	"gmti-panel/internal/remote"
	"gmti-panel/internal/snapshot"
)

var panelLogFile string

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open the interactive control panel",
	Long:  "panel opens a terminal UI that supervises the engine process, submits scenario configurations, and charts the polled detection snapshots.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath, schemaPath)
		if err != nil {
			return err
		}

		w := panel.NewTUIWriter()
		sup := engine.New(engine.Options{
			Command:      cfg.Engine.Command,
			Args:         cfg.Engine.Args,
			Dir:          cfg.ProjectRoot,
			StartTimeout: cfg.Engine.StartTimeout.Std(),
			StopTimeout:  cfg.Engine.StopTimeout.Std(),
		}, w.EngineLog, w.EngineExit)
		client := remote.NewClient(cfg.Endpoint)

		extra, cleanup, err := recordWriters(panelLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		// The TUI owns the terminal; slog output would mangle it unless the
		// user asked for debug output on STDERR explicitly.
		var logger = logging.NewWriter(io.Discard, false)
		if debugLog {
			logger = logging.NewWriter(os.Stderr, true)
		}

		runID := uuid.New().String()
		writers := append([]snapshot.Writer{w}, extra...)
		poller := remote.NewPoller(client, cfg.PollInterval.Std(), runID, writers...)

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logger))
		defer cancel()
		go poller.Run(ctx)

		err = w.Run(panel.New(cfg, sup, client, poller))
		cancel()
		if sup.State() != engine.NotRunning {
			sup.Stop()
		}
		return err
	},
}

func init() {
	panelCmd.Flags().StringVar(&panelLogFile, "log-file", "", "Path to record snapshots while the panel runs (JSONL)")
}
