package remote

import (
	"context"
	"sync"
	"time"

	"gmti-panel/internal/logging"
	"gmti-panel/internal/snapshot"
)

// Poller fetches the engine snapshot on a fixed interval and fans each
// snapshot out to the registered writers. Fetches run asynchronously, so a
// slow response never delays the next tick; overlapping in-flight polls are
// allowed and the last *delivered* snapshot wins at the sinks. Failed polls
// are dropped silently; the next tick is the retry.
type Poller struct {
	client   *Client
	interval time.Duration
	runID    string
	writers  []snapshot.Writer
	now      func() time.Time

	mu    sync.Mutex
	label string
}

// NewPoller creates a Poller delivering to the given writers.
func NewPoller(client *Client, interval time.Duration, runID string, writers ...snapshot.Writer) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{
		client:   client,
		interval: interval,
		runID:    runID,
		writers:  writers,
		now:      time.Now,
	}
}

// SetLabel updates the scenario label attached to recorded rows.
func (p *Poller) SetLabel(label string) {
	p.mu.Lock()
	p.label = label
	p.mu.Unlock()
}

// Run polls until the context is done. An immediate poll precedes the first
// tick. In-flight requests at shutdown finish and are discarded.
func (p *Poller) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting snapshot poller", "interval", p.interval)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	go p.poll(ctx)
	for {
		select {
		case <-ticker.C:
			go p.poll(ctx)
		case <-ctx.Done():
			log.Info("stopping snapshot poller")
			return
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	log := logging.FromContext(ctx)
	snap, err := p.client.Fetch(ctx)
	if err != nil {
		// No update this cycle; the engine may simply not be up yet.
		log.Debug("poll skipped", "err", err)
		return
	}
	if ctx.Err() != nil {
		return
	}

	p.mu.Lock()
	label := p.label
	p.mu.Unlock()

	row := snapshot.NewRow(p.runID, label, snap, p.now().UTC())
	for _, w := range p.writers {
		if err := w.Write(row); err != nil {
			log.Error("snapshot write failed", "err", err)
		}
	}
}
