package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/candidates", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/candidates", "GET", 200, 30*time.Millisecond)
	m.RecordRequest("/applications", "POST", 201, 5*time.Millisecond)
	m.RecordError("/candidates", "GET", "NOT_FOUND")
	m.RecordJob("interview_reminder", false)
	m.RecordJob("interview_reminder", true)

	snap := m.Snapshot()
	require.Len(t, snap.Requests, 2)
	assert.Equal(t, "/applications|POST|201", snap.Requests[0].Key)
	assert.Equal(t, int64(2), snap.Requests[1].Count)
	assert.InDelta(t, 20.0, snap.Requests[1].AvgLatencyMS, 0.01)
	assert.Equal(t, int64(1), snap.Errors["/candidates|GET|NOT_FOUND"])
	assert.Equal(t, int64(2), snap.JobRuns["interview_reminder"])
	assert.Equal(t, int64(1), snap.JobFailures["interview_reminder"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordJob("job", true)
	assert.Empty(t, m.Snapshot().Requests)
}
