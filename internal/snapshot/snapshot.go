// Snapshot model for the engine's visualization payload
package snapshot

import "time"

// Snapshot is the engine's /payload response. Absent fields decode to their
// zero values: no profile means an empty chart, no count means zero.
type Snapshot struct {
	PowerProfile   []float64 `json:"power_profile"`
	DetectionCount int       `json:"detection_count"`
}

// Row is the recorded form of a snapshot, enriched with the polling session
// id and the active scenario label.
type Row struct {
	RunID          string    `json:"run_id"`
	Scenario       string    `json:"scenario,omitempty"`
	DetectionCount int       `json:"detection_count"`
	ProfilePoints  int       `json:"profile_points"`
	PeakPower      float64   `json:"peak_power"`
	PowerProfile   []float64 `json:"power_profile,omitempty"`
	Timestamp      time.Time `json:"ts"`
}

// NewRow builds a Row from a snapshot.
func NewRow(runID, scenarioName string, snap Snapshot, ts time.Time) Row {
	peak := 0.0
	for _, v := range snap.PowerProfile {
		if v > peak {
			peak = v
		}
	}
	return Row{
		RunID:          runID,
		Scenario:       scenarioName,
		DetectionCount: snap.DetectionCount,
		ProfilePoints:  len(snap.PowerProfile),
		PeakPower:      peak,
		PowerProfile:   snap.PowerProfile,
		Timestamp:      ts,
	}
}
