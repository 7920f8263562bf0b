// Package api exposes the prediction engine over HTTP for operators and
// downstream consumers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/models"
	"github.com/yourusername/sportcast/internal/repository"
)

// PredictionEngine produces a decision for a fixture.
type PredictionEngine interface {
	Predict(ctx context.Context, match *models.Match) (*models.Decision, error)
}

// Server routes prediction requests to the engine and serves stored
// decisions back out.
type Server struct {
	engine    PredictionEngine
	decisions repository.DecisionRepository
	sport     string
	server    *http.Server
	logger    *logrus.Logger
}

// Config holds the configuration for the API server.
type Config struct {
	Port      int
	Sport     string
	Engine    PredictionEngine
	Decisions repository.DecisionRepository
	Logger    *logrus.Logger
}

// NewServer creates the API server.
func NewServer(cfg Config) *Server {
	s := &Server{
		engine:    cfg.Engine,
		decisions: cfg.Decisions,
		sport:     cfg.Sport,
		logger:    cfg.Logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/predictions", s.handlePredict)
	mux.HandleFunc("GET /v1/decisions/{id}", s.handleGetDecision)
	mux.HandleFunc("GET /v1/decisions", s.handleRecentDecisions)

	s.server = &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the API server in the background.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		s.logger.WithField("addr", s.server.Addr).Info("Prediction API starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("Prediction API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully stops the API server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var match models.Match
	if err := json.NewDecoder(r.Body).Decode(&match); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid match payload: " + err.Error()})
		return
	}

	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}
	if match.Sport == "" {
		match.Sport = s.sport
	}
	if match.HomeTeam.Name == "" || match.AwayTeam.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "home_team and away_team are required"})
		return
	}

	decision, err := s.engine.Predict(r.Context(), &match)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrNotTrained) || errors.Is(err, models.ErrInsufficientData) {
			status = http.StatusServiceUnavailable
		}
		s.logger.WithError(err).WithField("match_id", match.ID).Warn("Prediction request failed")
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	if s.decisions != nil {
		if err := s.decisions.Save(r.Context(), &match, decision); err != nil {
			s.logger.WithError(err).Warn("Failed to persist decision")
		}
	}

	writeJSON(w, http.StatusOK, decision)
}

func (s *Server) handleGetDecision(w http.ResponseWriter, r *http.Request) {
	if s.decisions == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "decision storage not configured"})
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid decision id"})
		return
	}

	decision, err := s.decisions.GetByID(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "decision not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, decision)
}

func (s *Server) handleRecentDecisions(w http.ResponseWriter, r *http.Request) {
	if s.decisions == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "decision storage not configured"})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be between 1 and 200"})
			return
		}
		limit = parsed
	}

	sport := r.URL.Query().Get("sport")
	if sport == "" {
		sport = s.sport
	}

	decisions, err := s.decisions.GetRecent(r.Context(), sport, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if decisions == nil {
		decisions = []*models.Decision{}
	}

	writeJSON(w, http.StatusOK, decisions)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
