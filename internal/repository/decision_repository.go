package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/sportcast/internal/database"
	"github.com/yourusername/sportcast/internal/models"
)

// PostgresDecisionRepository implements DecisionRepository for PostgreSQL
type PostgresDecisionRepository struct {
	db *database.DB
}

// NewPostgresDecisionRepository creates a new decision repository
func NewPostgresDecisionRepository(db *database.DB) DecisionRepository {
	return &PostgresDecisionRepository{db: db}
}

const decisionColumns = `id, match_id, sport, outcome, probabilities, confidence, risk_label,
       key_factors, value_bets, arbitrage, models_used, models_excluded, odds_available, created_at`

// Save inserts a decision record
func (r *PostgresDecisionRepository) Save(ctx context.Context, match *models.Match, decision *models.Decision) error {
	probs, err := json.Marshal(decision.Probabilities)
	if err != nil {
		return fmt.Errorf("failed to marshal probabilities: %w", err)
	}
	factors, err := json.Marshal(decision.KeyFactors)
	if err != nil {
		return fmt.Errorf("failed to marshal key factors: %w", err)
	}
	valueBets, err := json.Marshal(decision.ValueBets)
	if err != nil {
		return fmt.Errorf("failed to marshal value bets: %w", err)
	}
	arbitrage, err := json.Marshal(decision.Arbitrage)
	if err != nil {
		return fmt.Errorf("failed to marshal arbitrage: %w", err)
	}

	query := `
		INSERT INTO decisions (id, match_id, sport, home_team, away_team, outcome, probabilities,
		                       confidence, risk_label, key_factors, value_bets, arbitrage,
		                       models_used, models_excluded, odds_available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		decision.ID, decision.MatchID, decision.Sport, match.HomeTeam.Name, match.AwayTeam.Name,
		decision.Recommendation, probs, decision.Confidence, decision.RiskLabel, factors,
		valueBets, arbitrage, decision.ModelsConsulted, decision.ExcludedModels,
		decision.OddsAvailable, decision.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save decision: %w", err)
	}

	return nil
}

// GetByID retrieves a decision by ID
func (r *PostgresDecisionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Decision, error) {
	query := `SELECT ` + decisionColumns + ` FROM decisions WHERE id = $1`

	decision, err := scanDecision(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get decision: %w", err)
	}

	return decision, nil
}

// GetByMatchID retrieves all decisions recorded for a fixture
func (r *PostgresDecisionRepository) GetByMatchID(ctx context.Context, matchID uuid.UUID) ([]*models.Decision, error) {
	query := `SELECT ` + decisionColumns + ` FROM decisions WHERE match_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.GetPool().Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions by match: %w", err)
	}
	defer rows.Close()

	return collectDecisions(rows)
}

// GetRecent retrieves the most recent decisions for a sport
func (r *PostgresDecisionRepository) GetRecent(ctx context.Context, sport string, limit int) ([]*models.Decision, error) {
	query := `SELECT ` + decisionColumns + ` FROM decisions WHERE sport = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.GetPool().Query(ctx, query, sport, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent decisions: %w", err)
	}
	defer rows.Close()

	return collectDecisions(rows)
}

func collectDecisions(rows pgx.Rows) ([]*models.Decision, error) {
	var decisions []*models.Decision
	for rows.Next() {
		decision, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		decisions = append(decisions, decision)
	}
	return decisions, rows.Err()
}

func scanDecision(row pgx.Row) (*models.Decision, error) {
	decision := &models.Decision{}
	var probs, factors, valueBets, arbitrage []byte

	err := row.Scan(
		&decision.ID, &decision.MatchID, &decision.Sport, &decision.Recommendation, &probs,
		&decision.Confidence, &decision.RiskLabel, &factors, &valueBets, &arbitrage,
		&decision.ModelsConsulted, &decision.ExcludedModels, &decision.OddsAvailable,
		&decision.PredictedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(probs, &decision.Probabilities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal probabilities: %w", err)
	}
	if len(factors) > 0 {
		if err := json.Unmarshal(factors, &decision.KeyFactors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal key factors: %w", err)
		}
	}
	if len(valueBets) > 0 {
		if err := json.Unmarshal(valueBets, &decision.ValueBets); err != nil {
			return nil, fmt.Errorf("failed to unmarshal value bets: %w", err)
		}
	}
	if len(arbitrage) > 0 {
		if err := json.Unmarshal(arbitrage, &decision.Arbitrage); err != nil {
			return nil, fmt.Errorf("failed to unmarshal arbitrage: %w", err)
		}
	}

	return decision, nil
}
