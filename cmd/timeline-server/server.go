package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"time"

	"github.com/goliatone/go-timeline/internal/notify"
	"github.com/goliatone/go-timeline/internal/site"
	"github.com/goliatone/go-timeline/pkg/logger"
	"github.com/goliatone/go-timeline/pkg/metrics"
	"github.com/goliatone/go-timeline/pkg/pipeline"
)

// server glues the pipeline to the HTTP surface. The base context outlives
// individual requests so background retries are not cancelled when the
// triggering request finishes.
type server struct {
	base     context.Context
	pipe     *pipeline.Pipeline
	log      logger.Logger
	metrics  *metrics.Manager
	notifier notify.Notifier
}

func newServer(base context.Context, pipe *pipeline.Pipeline, log logger.Logger, m *metrics.Manager) *server {
	return &server{
		base:     base,
		pipe:     pipe,
		log:      log,
		metrics:  m,
		notifier: notify.Nop(),
	}
}

func (s *server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.withMetrics("/", s.handleIndex))
	mux.HandleFunc("/retry", s.withMetrics("/retry", s.handleRetry))
	mux.HandleFunc("/healthz", s.withMetrics("/healthz", s.handleHealthz))
	mux.HandleFunc("/readyz", s.withMetrics("/readyz", s.handleReadyz))
	mux.Handle("/metrics", s.metrics.Handler())
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServerFS(site.AssetsFS())))
}

// withMetrics records request counts and latency per endpoint.
func (s *server) withMetrics(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		s.metrics.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(wrapped.statusCode), time.Since(start))
	}
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	status := s.pipe.Status()
	switch status.State {
	case pipeline.StateReady:
		page, ok := s.pipe.Page()
		if !ok {
			writeError(w, http.StatusInternalServerError, "page unavailable")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	case pipeline.StateFailed:
		message := pipeline.CategoryOther.Message()
		if status.Failure != nil {
			message = status.Failure.Message
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, errorPage, html.EscapeString(message))
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(loadingPage))
	}
}

func (s *server) handleRetry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "retry requires POST")
		return
	}
	if s.pipe.State() != pipeline.StateFailed {
		writeError(w, http.StatusConflict, "pipeline is not in the failed state")
		return
	}

	// The replay can take as long as a full pass, so it runs detached from
	// the request.
	go func() {
		if err := s.pipe.Retry(s.base); err != nil {
			s.log.Error(s.base, "retry pass failed", logger.Error(err))
			s.notifyFailure()
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "retrying"})
}

func (s *server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	status := s.pipe.Status()
	if status.State != pipeline.StateReady {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"state":  string(status.State),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// notifyFailure sends one report for the current failure, if any.
func (s *server) notifyFailure() {
	status := s.pipe.Status()
	if status.Failure == nil {
		return
	}
	detail := ""
	if status.Failure.Err != nil {
		detail = status.Failure.Err.Error()
	}
	report := notify.Report{
		RunID:    status.RunID,
		Category: string(status.Failure.Category),
		Message:  status.Failure.Message,
		Detail:   detail,
		When:     time.Now(),
	}
	if err := s.notifier.Notify(s.base, report); err != nil {
		s.log.Warn(s.base, "failure notification not delivered", logger.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

const loadingPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><meta http-equiv="refresh" content="2"><title>Loading timeline</title></head>
<body><main class="loading"><p>Preparing the timeline&hellip;</p></main></body>
</html>`

const errorPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Timeline unavailable</title></head>
<body>
<main class="pipeline-error">
  <h1>Timeline unavailable</h1>
  <p>%s</p>
  <form method="post" action="/retry"><button type="submit">Retry</button></form>
</main>
</body>
</html>`
