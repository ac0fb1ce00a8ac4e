package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRunCounts(t *testing.T) {
	m := NewManager()

	m.RecordRun("ready")
	m.RecordRun("ready")
	m.RecordRun("failed")

	if got := testutil.ToFloat64(m.runs.WithLabelValues("ready")); got != 2 {
		t.Fatalf("ready runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.runs.WithLabelValues("failed")); got != 1 {
		t.Fatalf("failed runs = %v, want 1", got)
	}
}

func TestRecordFetchAndRender(t *testing.T) {
	m := NewManager(WithNamespace("test"), WithSubsystem("content"))

	m.RecordFetchOutcome("historical_events", "loaded")
	m.RecordFetchRetry("statistics")
	m.RecordFetchRetry("statistics")
	m.RecordRenderOutcome("hero", true)
	m.RecordRenderOutcome("sidebar", false)

	if got := testutil.ToFloat64(m.fetchRetries.WithLabelValues("statistics")); got != 2 {
		t.Fatalf("statistics retries = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.renderOutcomes.WithLabelValues("sidebar", "degraded")); got != 1 {
		t.Fatalf("degraded sidebar renders = %v, want 1", got)
	}
}

func TestNilAndDisabledManagersAreSafe(t *testing.T) {
	var nilManager *Manager
	nilManager.RecordRun("ready")
	nilManager.RecordStageDuration("loading", time.Second)
	nilManager.RecordFetchOutcome("x", "loaded")
	nilManager.RecordRenderOutcome("hero", true)

	disabled := NewManager(WithEnabled(false))
	disabled.RecordRun("ready")
	if got := testutil.ToFloat64(disabled.runs.WithLabelValues("ready")); got != 0 {
		t.Fatalf("disabled manager recorded a run: %v", got)
	}
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	m := NewManager(WithRegistry(prometheus.NewRegistry()))
	m.RecordRun("ready")
	m.RecordHTTPRequest("/", "GET", "200", 25*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "timeline_pipeline_runs_total") {
		t.Fatalf("expected runs metric in exposition, got:\n%s", body)
	}
	if !strings.Contains(body, "timeline_pipeline_http_requests_total") {
		t.Fatalf("expected http metric in exposition, got:\n%s", body)
	}
}
