package orchestrator

import (
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
)

// Trace records every stage attempt of a run in order.
type Trace struct {
	records []core.ExecutionRecord
	now     func() time.Time
	mu      sync.Mutex
}

// NewTrace creates an empty trace using now for timestamps.
func NewTrace(now func() time.Time) *Trace {
	if now == nil {
		now = time.Now
	}
	return &Trace{now: now}
}

// Start records that agent started and returns a function that records
// the outcome. A nil error marks the attempt completed.
func (t *Trace) Start(agent string) func(err error) {
	start := t.now()
	t.append(core.ExecutionRecord{
		Agent:     agent,
		Status:    core.StatusStarted,
		Timestamp: start.Format(time.RFC3339Nano),
	})

	return func(err error) {
		end := t.now()
		status := core.StatusCompleted
		if err != nil {
			status = core.FailedStatus(err.Error())
		}
		t.append(core.ExecutionRecord{
			Agent:      agent,
			Status:     status,
			Timestamp:  end.Format(time.RFC3339Nano),
			DurationMS: end.Sub(start).Milliseconds(),
		})
	}
}

func (t *Trace) append(r core.ExecutionRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, r)
}

// Records returns a copy of the recorded entries.
func (t *Trace) Records() []core.ExecutionRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]core.ExecutionRecord(nil), t.records...)
}

// Completed counts agents whose attempt completed.
func (t *Trace) Completed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, r := range t.records {
		if r.Status == core.StatusCompleted {
			n++
		}
	}
	return n
}

// Metadata summarizes the trace for a pipeline of total stages.
func (t *Trace) Metadata(total int) core.ExecutionMetadata {
	return core.ExecutionMetadata{
		ExecutionLog:    t.Records(),
		TotalAgents:     total,
		CompletedAgents: t.Completed(),
	}
}
