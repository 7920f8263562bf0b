package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/models"
)

type stubEngine struct {
	decision *models.Decision
	err      error
	lastCtx  context.Context
}

func (e *stubEngine) Predict(ctx context.Context, match *models.Match) (*models.Decision, error) {
	e.lastCtx = ctx
	if e.err != nil {
		return nil, e.err
	}
	d := *e.decision
	d.MatchID = match.ID
	return &d, nil
}

type stubDecisionRepo struct {
	saved   []*models.Decision
	byID    map[uuid.UUID]*models.Decision
	recent  []*models.Decision
	saveErr error
}

func (r *stubDecisionRepo) Save(ctx context.Context, match *models.Match, decision *models.Decision) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, decision)
	return nil
}

func (r *stubDecisionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Decision, error) {
	if d, ok := r.byID[id]; ok {
		return d, nil
	}
	return nil, models.ErrNotFound
}

func (r *stubDecisionRepo) GetByMatchID(ctx context.Context, matchID uuid.UUID) ([]*models.Decision, error) {
	return nil, nil
}

func (r *stubDecisionRepo) GetRecent(ctx context.Context, sport string, limit int) ([]*models.Decision, error) {
	if limit < len(r.recent) {
		return r.recent[:limit], nil
	}
	return r.recent, nil
}

func sampleDecision() *models.Decision {
	return &models.Decision{
		ID:             uuid.New(),
		Sport:          "premier_league",
		Recommendation: "home_win",
		Probabilities:  map[string]float64{"home_win": 0.5, "draw": 0.3, "away_win": 0.2},
		Confidence:     0.7,
		RiskLabel:      "Medium",
		PredictedAt:    time.Now().UTC(),
	}
}

func newTestAPI(engine PredictionEngine, repo *stubDecisionRepo) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewServer(Config{
		Port:      0,
		Sport:     "premier_league",
		Engine:    engine,
		Decisions: repo,
		Logger:    logger,
	})
}

func matchBody() string {
	return `{
		"sport": "premier_league",
		"home_team": {"name": "Arsenal"},
		"away_team": {"name": "Chelsea"},
		"kickoff_at": "2026-09-05T15:00:00Z"
	}`
}

// TestHandlePredict tests a successful prediction request
func TestHandlePredict(t *testing.T) {
	engine := &stubEngine{decision: sampleDecision()}
	repo := &stubDecisionRepo{}
	s := newTestAPI(engine, repo)

	req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(matchBody()))
	rec := httptest.NewRecorder()
	s.handlePredict(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var decision models.Decision
	if err := json.NewDecoder(rec.Body).Decode(&decision); err != nil {
		t.Fatalf("failed to decode decision: %v", err)
	}
	if decision.Recommendation != "home_win" {
		t.Errorf("expected home_win recommendation, got %s", decision.Recommendation)
	}
	if decision.MatchID == uuid.Nil {
		t.Error("expected a match id to be assigned")
	}
	if len(repo.saved) != 1 {
		t.Errorf("expected decision to be persisted, saved=%d", len(repo.saved))
	}
}

// TestHandlePredictMissingTeams tests payload validation
func TestHandlePredictMissingTeams(t *testing.T) {
	s := newTestAPI(&stubEngine{decision: sampleDecision()}, &stubDecisionRepo{})

	req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(`{"sport":"nba"}`))
	rec := httptest.NewRecorder()
	s.handlePredict(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// TestHandlePredictInvalidJSON tests malformed payload handling
func TestHandlePredictInvalidJSON(t *testing.T) {
	s := newTestAPI(&stubEngine{decision: sampleDecision()}, &stubDecisionRepo{})

	req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	s.handlePredict(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// TestHandlePredictUntrained tests the untrained ensemble path
func TestHandlePredictUntrained(t *testing.T) {
	s := newTestAPI(&stubEngine{err: models.ErrNotTrained}, &stubDecisionRepo{})

	req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(matchBody()))
	rec := httptest.NewRecorder()
	s.handlePredict(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

// TestHandleGetDecision tests decision retrieval by id
func TestHandleGetDecision(t *testing.T) {
	decision := sampleDecision()
	repo := &stubDecisionRepo{byID: map[uuid.UUID]*models.Decision{decision.ID: decision}}
	s := newTestAPI(&stubEngine{decision: decision}, repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/decisions/"+decision.ID.String(), nil)
	req.SetPathValue("id", decision.ID.String())
	rec := httptest.NewRecorder()
	s.handleGetDecision(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Unknown id
	unknown := uuid.New()
	req = httptest.NewRequest(http.MethodGet, "/v1/decisions/"+unknown.String(), nil)
	req.SetPathValue("id", unknown.String())
	rec = httptest.NewRecorder()
	s.handleGetDecision(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

// TestHandleRecentDecisions tests the recent decision listing
func TestHandleRecentDecisions(t *testing.T) {
	repo := &stubDecisionRepo{recent: []*models.Decision{sampleDecision(), sampleDecision()}}
	s := newTestAPI(&stubEngine{decision: sampleDecision()}, repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/decisions?limit=1", nil)
	rec := httptest.NewRecorder()
	s.handleRecentDecisions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var decisions []*models.Decision
	if err := json.NewDecoder(rec.Body).Decode(&decisions); err != nil {
		t.Fatalf("failed to decode decisions: %v", err)
	}
	if len(decisions) != 1 {
		t.Errorf("expected 1 decision, got %d", len(decisions))
	}

	// Bad limit
	req = httptest.NewRequest(http.MethodGet, "/v1/decisions?limit=0", nil)
	rec = httptest.NewRecorder()
	s.handleRecentDecisions(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}
}
