package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMetricsAreIsolatedPerInstance(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordCommand("fs_stat", "success", time.Millisecond)

	assert.Contains(t, scrape(t, a), `fsbridge_command_calls_total{command="fs_stat",status="success"} 1`)
	assert.NotContains(t, scrape(t, b), `fsbridge_command_calls_total{command="fs_stat"`)
}

func TestSnapshotTracksCommands(t *testing.T) {
	m := NewMetrics()
	m.RecordCommand("fs_read_file", "success", 2*time.Millisecond)
	m.RecordCommand("fs_read_file", "error", 4*time.Millisecond)
	m.RecordCommandError("fs_read_file", "NotFound")
	m.IncWSConnections()

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.TotalCommands)
	assert.Equal(t, int64(1), snap.FailedCommands)
	assert.Equal(t, int64(1), snap.ActiveConnections)
	assert.InDelta(t, 3.0, snap.AvgCommandMillis, 0.5)
	assert.Contains(t, scrape(t, m), `fsbridge_command_errors_total{command="fs_read_file",kind="NotFound"} 1`)
}

func TestTimerWithoutMetrics(t *testing.T) {
	timer := NewTimer(nil, "fs_exists")
	assert.GreaterOrEqual(t, timer.Stop("success"), time.Duration(0))
}

func TestHandlerExposesFamilies(t *testing.T) {
	m := NewMetrics()
	m.AddBytesRead(10)
	m.RecordHTTPRequest("GET", "/health", "200", time.Millisecond, 0, 12)

	body := scrape(t, m)
	assert.Contains(t, body, "fsbridge_bytes_read_total 10")
	assert.Contains(t, body, "fsbridge_uptime_seconds")
	assert.Contains(t, body, `fsbridge_http_requests_total{method="GET",path="/health",status="200"} 1`)
}
