package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"gmti-panel/internal/snapshot"
)

type collectingWriter struct {
	mu   sync.Mutex
	rows []snapshot.Row
}

func (c *collectingWriter) Write(row snapshot.Row) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, row)
	return nil
}

func (c *collectingWriter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rows)
}

func (c *collectingWriter) last() snapshot.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows[len(c.rows)-1]
}

func TestPoller_DeliversSnapshots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"power_profile":[1,2,4],"detection_count":3}`))
	}))
	defer srv.Close()

	sink := &collectingWriter{}
	p := NewPoller(NewClient(srv.URL), 20*time.Millisecond, "run-1", sink)
	p.SetLabel("coastal")

	ctx, cancel := context.WithCancel(context.Background())
	go p.Run(ctx)

	deadline := time.Now().Add(3 * time.Second)
	for sink.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if sink.count() < 2 {
		t.Fatalf("expected at least 2 rows, got %d", sink.count())
	}
	row := sink.last()
	if row.DetectionCount != 3 || row.Scenario != "coastal" || row.RunID != "run-1" {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestPoller_SkipsFailedTicks(t *testing.T) {
	var mu sync.Mutex
	fail := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		bad := fail
		fail = !fail
		mu.Unlock()
		if bad {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"power_profile":[1],"detection_count":1}`))
	}))
	defer srv.Close()

	sink := &collectingWriter{}
	p := NewPoller(NewClient(srv.URL), 20*time.Millisecond, "run-1", sink)

	ctx, cancel := context.WithCancel(context.Background())
	go p.Run(ctx)

	deadline := time.Now().Add(3 * time.Second)
	for sink.count() < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	// Failed ticks produce no rows; successful ones still arrive.
	if sink.count() < 1 {
		t.Fatal("expected a row despite intermittent failures")
	}
}
