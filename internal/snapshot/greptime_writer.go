package snapshot

import (
	"context"
	"log"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// GreptimeDBWriter records snapshot rows in GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client *greptime.Client
	table  string
}

// NewGreptimeDBWriter creates a GreptimeDB writer. tableName may be empty to
// use the default radar_snapshots table.
func NewGreptimeDBWriter(host, database, tableName string) (*GreptimeDBWriter, error) {
	cfg := greptime.NewConfig(host).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if tableName == "" {
		tableName = "radar_snapshots"
	}
	return &GreptimeDBWriter{client: client, table: tableName}, nil
}

// Write inserts a single snapshot row.
func (w *GreptimeDBWriter) Write(row Row) error {
	return w.WriteBatch([]Row{row})
}

// WriteBatch inserts multiple snapshot rows.
func (w *GreptimeDBWriter) WriteBatch(rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	tbl, err := table.New(w.table)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("run_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("scenario", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("detection_count", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("profile_points", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("peak_power", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}

	for _, r := range rows {
		err := tbl.AddRow(r.RunID, r.Scenario,
			int64(r.DetectionCount), int64(r.ProfilePoints), r.PeakPower, r.Timestamp)
		if err != nil {
			return err
		}
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		log.Printf("[GreptimeDBWriter] Write failed: %v", err)
		return err
	}
	return nil
}
