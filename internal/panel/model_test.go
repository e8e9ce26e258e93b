package panel

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gmti-panel/internal/config"
	"gmti-panel/internal/engine"
	"gmti-panel/internal/remote"
	"gmti-panel/internal/snapshot"
)

func testModel(t *testing.T) Model {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "configs")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"alpha.yaml": "taps: 6\nnoise: 0.1\ndescription: alpha sweep\n",
		"bravo.yaml": "range_bins: 4096\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.Default()
	cfg.ProjectRoot = root
	cfg.ScenarioDir = "configs"

	sup := engine.New(engine.Options{Command: "true"}, nil, nil)
	client := remote.NewClient("http://127.0.0.1:1")
	return New(cfg, sup, client, nil)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		res, _ := m.Update(msg)
		m = res.(Model)
	}
	return m
}

func lastLog(m Model) string {
	if len(m.logs) == 0 {
		return ""
	}
	return m.logs[len(m.logs)-1]
}

func TestRunRefusedWhenEngineNotRunning(t *testing.T) {
	m := testModel(t)
	m = press(t, m, "r")
	if !strings.Contains(lastLog(m), "engine is not running") {
		t.Fatalf("expected refusal in log, got %q", lastLog(m))
	}
}

func TestScenarioCycleLoadsFile(t *testing.T) {
	m := testModel(t)
	m = press(t, m, "l")
	if m.scenarioName != "alpha" {
		t.Fatalf("scenario name %q, want alpha", m.scenarioName)
	}
	if m.params.Taps != 6 || m.params.Noise != 0.1 {
		t.Fatalf("file fields not applied: %+v", m.params)
	}
	// Keys absent from the file keep the previous values.
	if m.params.RangeBins != 2048 {
		t.Fatalf("range_bins changed to %d without a file key", m.params.RangeBins)
	}
	if m.scenarioDesc != "alpha sweep" {
		t.Fatalf("description %q, want alpha sweep", m.scenarioDesc)
	}
	if got := m.inputs[fieldTaps].Value(); got != "6" {
		t.Fatalf("taps input %q, want 6", got)
	}

	m = press(t, m, "l")
	if m.scenarioName != "bravo" {
		t.Fatalf("scenario name %q, want bravo", m.scenarioName)
	}
	if m.params.Taps != 6 {
		t.Fatalf("taps reset to %d; values must carry across loads", m.params.Taps)
	}
	if m.params.RangeBins != 4096 {
		t.Fatalf("range_bins %d, want 4096", m.params.RangeBins)
	}

	m = press(t, m, "L")
	if m.scenarioName != "alpha" {
		t.Fatalf("reverse cycle gave %q, want alpha", m.scenarioName)
	}
}

func TestSnapshotMsgUpdatesChartState(t *testing.T) {
	m := testModel(t)
	row := snapshot.NewRow("run-1", "alpha", snapshot.Snapshot{
		PowerProfile:   []float64{1, 2, 4},
		DetectionCount: 3,
	}, time.Now())
	res, _ := m.Update(snapshotMsg{row: row})
	m = res.(Model)
	if !m.haveData || m.detections != 3 || len(m.profile) != 3 {
		t.Fatalf("snapshot not applied: haveData=%v detections=%d profile=%v", m.haveData, m.detections, m.profile)
	}
}

func TestEngineLogAppended(t *testing.T) {
	m := testModel(t)
	res, _ := m.Update(engineLogMsg{line: "listening on 127.0.0.1:9000"})
	m = res.(Model)
	if !strings.Contains(lastLog(m), "listening on 127.0.0.1:9000") {
		t.Fatalf("engine line missing from log: %q", lastLog(m))
	}
}

func TestFieldEditing(t *testing.T) {
	m := testModel(t)
	m = press(t, m, "tab")
	if m.focus != fieldTaps {
		t.Fatalf("focus %d, want %d", m.focus, fieldTaps)
	}
	m.inputs[fieldTaps].SetValue("8")
	m = press(t, m, "esc")
	if m.focus != noFocus {
		t.Fatalf("esc should blur, focus=%d", m.focus)
	}
	if m.params.Taps != 8 {
		t.Fatalf("edited value not committed: %d", m.params.Taps)
	}
}

func TestFieldEditRevertsBadValue(t *testing.T) {
	m := testModel(t)
	m = press(t, m, "tab")
	m.inputs[fieldTaps].SetValue("not-a-number")
	m = press(t, m, "esc")
	if m.params.Taps != 4 {
		t.Fatalf("bad value should revert, got %d", m.params.Taps)
	}
	if m.inputs[fieldTaps].Value() != "4" {
		t.Fatalf("input should be restored, got %q", m.inputs[fieldTaps].Value())
	}
}

func TestHelpToggle(t *testing.T) {
	m := testModel(t)
	m = press(t, m, "h")
	if !strings.Contains(m.View(), "Key Bindings") {
		t.Fatal("help view missing")
	}
	m = press(t, m, "h")
	if strings.Contains(m.View(), "Key Bindings") {
		t.Fatal("help view should close on second press")
	}
}

func TestViewPlaceholderBeforeData(t *testing.T) {
	m := testModel(t)
	res, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = res.(Model)
	if !strings.Contains(stripANSI(m.View()), "Awaiting data...") {
		t.Fatal("expected chart placeholder before first snapshot")
	}
}
