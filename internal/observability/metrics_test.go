package observability

import (
	"testing"
	"time"
)

func TestMetricsRecordRequest(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	metrics.RecordRequest("/tickets", "GET", 200, time.Millisecond)
	metrics.RecordRequest("/tickets", "GET", 200, time.Millisecond)
	metrics.RecordRequest("/tickets", "POST", 201, time.Millisecond)

	if got := metrics.RequestTotal("/tickets", "GET", 200); got != 2 {
		t.Fatalf("expected 2 recorded GETs, got %d", got)
	}
	if got := metrics.RequestTotal("/tickets", "POST", 201); got != 1 {
		t.Fatalf("expected 1 recorded POST, got %d", got)
	}
	if got := metrics.RequestTotal("/tickets", "DELETE", 204); got != 0 {
		t.Fatalf("expected no recorded DELETEs, got %d", got)
	}
}

func TestMetricsNilReceiver(t *testing.T) {
	t.Parallel()

	var metrics *Metrics
	metrics.RecordRequest("/tickets", "GET", 200, 0)
	metrics.RecordError("/tickets", "GET", "NOT_FOUND")
	if metrics.RequestTotal("/tickets", "GET", 200) != 0 {
		t.Fatal("nil metrics must report zero")
	}
}
