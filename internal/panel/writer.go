package panel

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"gmti-panel/internal/remote"
	"gmti-panel/internal/snapshot"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// snapshotMsg carries a polled snapshot row.
type snapshotMsg struct{ row snapshot.Row }

// engineLogMsg carries one line of engine output for the log viewport.
type engineLogMsg struct{ line string }

// engineExitMsg reports that the supervised engine process exited.
type engineExitMsg struct{ err error }

// submitMsg reports the outcome of a scenario submission.
type submitMsg struct {
	res remote.SubmitResult
	err error
}

// TUIWriter bridges the poller and the engine supervisor into the bubbletea
// program. It implements snapshot.Writer, and its EngineLog/EngineExit
// methods plug into engine.Supervisor callbacks. Events arriving before Run
// attaches the program are dropped.
type TUIWriter struct {
	mu      sync.Mutex
	program teaProgram
	done    chan struct{}
}

// NewTUIWriter returns a TUIWriter with no program attached yet.
func NewTUIWriter() *TUIWriter {
	return &TUIWriter{done: make(chan struct{})}
}

// Run starts the bubbletea program for m and blocks until it exits.
func (w *TUIWriter) Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.mu.Lock()
	w.program = p
	w.mu.Unlock()
	_, err := p.Run()
	close(w.done)
	return err
}

func (w *TUIWriter) send(msg tea.Msg) {
	w.mu.Lock()
	p := w.program
	w.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Write implements snapshot.Writer.
func (w *TUIWriter) Write(row snapshot.Row) error {
	w.send(snapshotMsg{row: row})
	return nil
}

// EngineLog forwards one line of engine output into the log viewport.
func (w *TUIWriter) EngineLog(line string) {
	w.send(engineLogMsg{line: line})
}

// EngineExit refreshes the footer state indicator after the engine exits.
func (w *TUIWriter) EngineExit(err error) {
	w.send(engineExitMsg{err: err})
}
