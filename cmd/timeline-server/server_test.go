package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-timeline/pkg/content"
	"github.com/goliatone/go-timeline/pkg/logger"
	"github.com/goliatone/go-timeline/pkg/metrics"
	"github.com/goliatone/go-timeline/pkg/pipeline"
)

type toggleLoader struct {
	mu   sync.Mutex
	fail bool
	docs map[string][]byte
}

func (l *toggleLoader) setFail(fail bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail = fail
}

func (l *toggleLoader) Load(_ context.Context, src content.Source) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail {
		return nil, errors.New("toggle: transport failure")
	}
	body, ok := l.docs[src.Location()]
	if !ok {
		return nil, fmt.Errorf("toggle: no document at %s", src.Location())
	}
	return body, nil
}

func testServer(t *testing.T, loader *toggleLoader) *server {
	t.Helper()

	pipe, err := pipeline.New(
		pipeline.WithBatch(content.FSBatch(".")),
		pipeline.WithLoader(loader),
		pipeline.WithSleep(func(context.Context, time.Duration) error { return nil }),
	)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return newServer(context.Background(), pipe, logger.Nop(), metrics.NewManager())
}

func mandatoryFixture(t *testing.T) []byte {
	t.Helper()
	body, err := os.ReadFile("testdata/historical_events.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return body
}

func waitForState(t *testing.T, pipe *pipeline.Pipeline, want pipeline.State) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if pipe.State() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("pipeline never reached %s, stuck at %s", want, pipe.State())
}

func TestIndexServesLoadingThenErrorThenPage(t *testing.T) {
	loader := &toggleLoader{fail: true, docs: map[string][]byte{
		"historical_events.json": mandatoryFixture(t),
	}}
	srv := testServer(t, loader)

	// Before any pass the page is still loading.
	rec := httptest.NewRecorder()
	srv.handleIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("loading status = %d, want 503", rec.Code)
	}

	// A failed pass serves the categorized error page with a retry action.
	if err := srv.pipe.Run(context.Background()); err == nil {
		t.Fatal("expected first pass to fail")
	}
	rec = httptest.NewRecorder()
	srv.handleIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("failed status = %d, want 500", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, pipeline.CategoryMandatoryLoad.Message()) {
		t.Fatalf("error page missing the category message:\n%s", body)
	}
	if !strings.Contains(body, `action="/retry"`) {
		t.Fatalf("error page missing the retry action:\n%s", body)
	}

	// Retry with a healthy loader replays the pass and serves the page.
	loader.setFail(false)
	rec = httptest.NewRecorder()
	srv.handleRetry(rec, httptest.NewRequest(http.MethodPost, "/retry", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("retry status = %d, want 202: %s", rec.Code, rec.Body.String())
	}
	waitForState(t, srv.pipe, pipeline.StateReady)

	rec = httptest.NewRecorder()
	srv.handleIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ready status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "hero-stats") {
		t.Fatal("assembled page missing the hero section")
	}
}

func TestRetryRejectedOutsideFailedState(t *testing.T) {
	loader := &toggleLoader{docs: map[string][]byte{
		"historical_events.json": mandatoryFixture(t),
	}}
	srv := testServer(t, loader)

	rec := httptest.NewRecorder()
	srv.handleRetry(rec, httptest.NewRequest(http.MethodPost, "/retry", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("retry from idle = %d, want 409", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.handleRetry(rec, httptest.NewRequest(http.MethodGet, "/retry", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET retry = %d, want 405", rec.Code)
	}
}

func TestReadyzTracksPipelineState(t *testing.T) {
	loader := &toggleLoader{docs: map[string][]byte{
		"historical_events.json": mandatoryFixture(t),
	}}
	srv := testServer(t, loader)

	rec := httptest.NewRecorder()
	srv.handleReadyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz before run = %d, want 503", rec.Code)
	}

	if err := srv.pipe.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	rec = httptest.NewRecorder()
	srv.handleReadyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz after run = %d, want 200", rec.Code)
	}
}
