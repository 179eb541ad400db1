package orchestrator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
)

func TestTrace_RecordsDurationAndStatus(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		now = now.Add(250 * time.Millisecond)
		return now
	}
	tr := NewTrace(tick)

	tr.Start(core.AgentStartup)(nil)
	tr.Start(core.AgentPolicy)(errors.New("boom"))

	recs := tr.Records()
	require.Len(t, recs, 4)
	assert.Equal(t, core.StatusStarted, recs[0].Status)
	assert.Equal(t, core.StatusCompleted, recs[1].Status)
	assert.Equal(t, int64(250), recs[1].DurationMS)
	assert.Equal(t, "failed: boom", recs[3].Status)
	assert.True(t, recs[3].Failed())

	md := tr.Metadata(6)
	assert.Equal(t, 6, md.TotalAgents)
	assert.Equal(t, 1, md.CompletedAgents)
}

func TestSafeCall_RecoversPanic(t *testing.T) {
	out, err := safeCall(func() (int, error) {
		panic("kaboom")
	})
	assert.Zero(t, out)
	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatExecution))
	assert.Contains(t, err.Error(), "kaboom")
}
