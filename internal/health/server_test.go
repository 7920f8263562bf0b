package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(ctx context.Context) error { return p.err }

type stubModel struct {
	trained bool
}

func (m *stubModel) Trained() bool { return m.trained }

func newTestServer(db DatabasePinger, model ModelChecker) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewServer(Config{
		ServiceName: "sportcast",
		Version:     "test",
		Port:        "0",
		Logger:      logger,
		DB:          db,
		Model:       model,
	})
}

// TestHandleHealth tests the liveness endpoint
func TestHandleHealth(t *testing.T) {
	s := newTestServer(nil, nil)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Service != "sportcast" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

// TestHandleReadyAllHealthy tests readiness with all checks passing
func TestHandleReadyAllHealthy(t *testing.T) {
	s := newTestServer(&stubPinger{}, &stubModel{trained: true})
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ReadyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Checks["database"] != "ok" || resp.Checks["ensemble"] != "ok" {
		t.Errorf("unexpected checks: %+v", resp.Checks)
	}
}

// TestHandleReadyDatabaseDown tests readiness with a failing database
func TestHandleReadyDatabaseDown(t *testing.T) {
	s := newTestServer(&stubPinger{err: errors.New("connection refused")}, &stubModel{trained: true})
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

// TestHandleReadyUntrainedModel tests readiness before training
func TestHandleReadyUntrainedModel(t *testing.T) {
	s := newTestServer(&stubPinger{}, &stubModel{trained: false})
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp ReadyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Checks["ensemble"] != "not_trained" {
		t.Errorf("expected ensemble not_trained, got: %+v", resp.Checks)
	}
}

// TestHandleReadyNotMarkedReady tests the manual readiness gate
func TestHandleReadyNotMarkedReady(t *testing.T) {
	s := newTestServer(nil, nil)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if s.IsReady() {
		t.Error("expected server not ready")
	}
}
