package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSection_FailedMarshalsErrorOnly(t *testing.T) {
	s := Failed[PolicyAnalysis](errors.New("retriever down"))
	assert.False(t, s.OK())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"retriever down"}`, string(data))
}

func TestSection_SucceededMarshalsValue(t *testing.T) {
	s := Succeeded(NewsAnalysis{
		Opportunities: []string{"o"},
		Risks:         []string{"r"},
		RecentEvents:  []string{"e"},
	})
	assert.True(t, s.OK())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"opportunities":["o"],"risks":["r"],"recent_events":["e"]}`, string(data))
}

func TestSection_UnmarshalBothShapes(t *testing.T) {
	var failed Section[MarketAnalysis]
	require.NoError(t, json.Unmarshal([]byte(`{"error":"boom"}`), &failed))
	assert.Equal(t, "boom", failed.Err)

	var ok Section[MarketAnalysis]
	require.NoError(t, json.Unmarshal([]byte(`{"market_size_estimate":"$1B","growth_signals":["g"]}`), &ok))
	assert.True(t, ok.OK())
	assert.Equal(t, "$1B", ok.Value.MarketSizeEstimate)
}

func TestReadiness_Valid(t *testing.T) {
	assert.True(t, ReadinessLow.Valid())
	assert.True(t, ReadinessMedium.Valid())
	assert.True(t, ReadinessHigh.Valid())
	assert.False(t, Readiness("very high").Valid())
	assert.False(t, Readiness("").Valid())
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range AllCategories() {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("blog").Valid())
}

func TestExecutionRecord_Failed(t *testing.T) {
	assert.True(t, ExecutionRecord{Status: FailedStatus("boom")}.Failed())
	assert.False(t, ExecutionRecord{Status: StatusCompleted}.Failed())
	assert.Equal(t, "failed: boom", FailedStatus("boom"))
}
