package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCountFallbacks(t *testing.T) {
	m := NewMetrics()
	m.RecordFallback("tickets.list")
	m.RecordFallback("tickets.list")
	m.RecordFallback("technicians.get")

	if got := testutil.ToFloat64(m.storageFallbacks.WithLabelValues("tickets.list")); got != 2 {
		t.Errorf("tickets.list fallbacks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.storageFallbacks.WithLabelValues("technicians.get")); got != 1 {
		t.Errorf("technicians.get fallbacks = %v, want 1", got)
	}
}

func TestMetricsRecordRequestAndError(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/v1/tickets/assigned", "GET", 200, 15*time.Millisecond)
	m.RecordError("/api/v1/tickets/assigned", "GET", "UNAUTHORIZED")

	if got := testutil.ToFloat64(m.requestCount.WithLabelValues("/api/v1/tickets/assigned", "GET", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.errorCount.WithLabelValues("/api/v1/tickets/assigned", "GET", "UNAUTHORIZED")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordFallback("op")
}
