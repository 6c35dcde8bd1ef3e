package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/dashboard", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/dashboard", "GET", 200, 30*time.Millisecond)
	m.RecordRequest("/api/tickets", "POST", 201, 5*time.Millisecond)
	m.RecordError("/api/tickets", "POST", "VALIDATION_FAILED")

	snap := m.Snapshot()
	require.Len(t, snap.Requests, 2)
	assert.Equal(t, "/api/dashboard|GET|200", snap.Requests[0].Key)
	assert.Equal(t, int64(2), snap.Requests[0].Count)
	assert.InDelta(t, 20.0, snap.Requests[0].AverageMS, 0.001)
	assert.Equal(t, []ErrorMetric{{Key: "/api/tickets|POST|VALIDATION_FAILED", Count: 1}}, snap.Errors)
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	assert.Empty(t, m.Snapshot().Requests)
}
