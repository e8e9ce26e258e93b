package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gmti-panel/internal/config"
	"gmti-panel/internal/engine"
	"gmti-panel/internal/logging"
	"gmti-panel/internal/remote"
	"gmti-panel/internal/scenario"
	"gmti-panel/internal/snapshot"
)

var (
	batchPrintOnly   bool
	batchLogFile     string
	batchStartEngine bool
	batchSettle      time.Duration
	batchReadyWait   time.Duration
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run every scenario preset and record one snapshot each",
	Long:  "batch submits each scenario file in turn, waits for the engine to regenerate, and records the resulting snapshot. With --start-engine the engine process is launched and torn down around the run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath, schemaPath)
		if err != nil {
			return err
		}
		logger := logging.New(debugLog)
		ctx, stop := context.WithCancel(logging.NewContext(context.Background(), logger))
		defer stop()

		writer, cleanup, err := newWriters(batchPrintOnly, batchLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		client := remote.NewClient(cfg.Endpoint)

		if batchStartEngine {
			sup := engine.New(engine.Options{
				Command:      cfg.Engine.Command,
				Args:         cfg.Engine.Args,
				Dir:          cfg.ProjectRoot,
				StartTimeout: cfg.Engine.StartTimeout.Std(),
				StopTimeout:  cfg.Engine.StopTimeout.Std(),
			}, func(line string) { logger.Debug("engine", "line", line) }, nil)
			sup.Start()
			defer sup.Stop()
			if err := waitReady(ctx, client, batchReadyWait); err != nil {
				return err
			}
		}

		files, err := scenario.List(filepath.Join(cfg.ProjectRoot, cfg.ScenarioDir))
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no scenario files under %s", cfg.ScenarioDir)
		}

		runID := uuid.New().String()
		succeeded := 0
		for _, f := range files {
			params, _, err := scenario.LoadFile(f.Path, scenario.Defaults())
			if err != nil {
				logger.Error("scenario load failed", "file", f.Name, "err", err)
				continue
			}
			res, err := client.Submit(ctx, params)
			if err != nil {
				logger.Error("submit failed", "scenario", params.Scenario, "err", err)
				continue
			}
			// Give the engine time to regenerate before sampling.
			select {
			case <-time.After(batchSettle):
			case <-ctx.Done():
				return ctx.Err()
			}
			snap, err := client.Fetch(ctx)
			if err != nil {
				logger.Error("fetch failed", "scenario", params.Scenario, "err", err)
				continue
			}
			row := snapshot.NewRow(runID, params.Scenario, snap, time.Now().UTC())
			if err := writer.Write(row); err != nil {
				logger.Error("snapshot write failed", "scenario", params.Scenario, "err", err)
				continue
			}
			succeeded++
			logger.Info("scenario complete",
				"scenario", params.Scenario,
				"status", res.Status,
				"detections", snap.DetectionCount,
				"points", len(snap.PowerProfile))
		}

		logger.Info("batch complete", "scenarios", len(files), "succeeded", succeeded)
		if succeeded == 0 {
			return fmt.Errorf("all %d scenarios failed", len(files))
		}
		return nil
	},
}

// waitReady polls the snapshot endpoint until the engine answers.
func waitReady(ctx context.Context, client *remote.Client, timeout time.Duration) error {
	log := logging.FromContext(ctx)
	deadline := time.Now().Add(timeout)
	for {
		if _, err := client.Fetch(ctx); err == nil {
			log.Info("engine ready")
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("engine not reachable within %s", timeout)
		}
		select {
		case <-time.After(500 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func init() {
	batchCmd.Flags().BoolVar(&batchPrintOnly, "print-only", false, "Print snapshots to STDOUT instead of writing to DB")
	batchCmd.Flags().StringVar(&batchLogFile, "log-file", "", "Path to export snapshots (JSONL)")
	batchCmd.Flags().BoolVar(&batchStartEngine, "start-engine", false, "Launch the engine process for the duration of the run")
	batchCmd.Flags().DurationVar(&batchSettle, "settle", 2*time.Second, "Wait after each submission before sampling")
	batchCmd.Flags().DurationVar(&batchReadyWait, "ready-timeout", 30*time.Second, "How long to wait for the engine to come up with --start-engine")
}
