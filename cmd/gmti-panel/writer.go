package main

import (
	"os"

	"golang.org/x/term"

	"gmti-panel/internal/snapshot"
)

// newWriters sets up the snapshot writer chain for headless commands based on
// flags and env vars. It returns the writer and a cleanup function to close
// any resources.
func newWriters(printOnly bool, logFile string) (snapshot.Writer, func(), error) {
	cleanup := func() {}

	writer, err := baseWriter(printOnly)
	if err != nil {
		return nil, nil, err
	}
	if logFile == "" {
		return writer, cleanup, nil
	}

	fw, err := snapshot.NewFileWriter(logFile)
	if err != nil {
		return nil, nil, err
	}
	cleanup = func() { fw.Close() }
	return snapshot.NewMultiWriter(writer, fw), cleanup, nil
}

// baseWriter chooses the underlying writer based on the printOnly flag and
// env vars. On a TTY snapshots print as human-readable lines, otherwise as
// JSON lines suitable for piping.
func baseWriter(printOnly bool) (snapshot.Writer, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return snapshot.NewStdoutWriter(), nil
		}
		return snapshot.NewJSONStdoutWriter(), nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	table := os.Getenv("GREPTIMEDB_TABLE")
	return snapshot.NewGreptimeDBWriter(endpoint, "public", table)
}

// recordWriters builds the optional recording sinks for the interactive
// panel. The TUI owns the terminal, so STDOUT writers are never included.
func recordWriters(logFile string) ([]snapshot.Writer, func(), error) {
	cleanup := func() {}
	var writers []snapshot.Writer

	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" {
		gw, err := snapshot.NewGreptimeDBWriter(endpoint, "public", os.Getenv("GREPTIMEDB_TABLE"))
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, gw)
	}
	if logFile != "" {
		fw, err := snapshot.NewFileWriter(logFile)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, fw)
		cleanup = func() { fw.Close() }
	}
	return writers, cleanup, nil
}
