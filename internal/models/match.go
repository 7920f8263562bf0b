package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchResult is one completed fixture used for form and head-to-head
// analysis.
type MatchResult struct {
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
	PlayedAt  time.Time `json:"played_at"`
}

// Winner returns the outcome class of the result.
func (r MatchResult) Winner() int {
	switch {
	case r.HomeScore > r.AwayScore:
		return OutcomeHomeWin
	case r.HomeScore < r.AwayScore:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

// TeamStats carries season-level performance indicators for a team.
// Fields not populated by the upstream collector are left at zero and
// ignored by the analyzers.
type TeamStats struct {
	GoalsFor             float64 `json:"goals_for"`
	GoalsAgainst         float64 `json:"goals_against"`
	PointsPerGame        float64 `json:"points_per_game"`
	FieldGoalPercentage  float64 `json:"field_goal_percentage,omitempty"`
	YardsPerGame         float64 `json:"yards_per_game,omitempty"`
	OverallRating        float64 `json:"overall_rating"`
	MatchesPlayed        int     `json:"matches_played"`
	HomeWins             int     `json:"home_wins"`
	HomeMatches          int     `json:"home_matches"`
	InjuredKeyPlayers    int     `json:"injured_key_players"`
	RestDays             int     `json:"rest_days"`
}

// Team is one side of a fixture with its recent history.
type Team struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	RecentMatches []MatchResult `json:"recent_matches"`
	Stats         TeamStats     `json:"stats"`
}

// Match is one prediction request: a fixture plus the context the
// analyzers need.
type Match struct {
	ID         uuid.UUID     `json:"id"`
	Sport      string        `json:"sport"`
	HomeTeam   Team          `json:"home_team"`
	AwayTeam   Team          `json:"away_team"`
	HeadToHead []MatchResult `json:"head_to_head"`
	KickoffAt  time.Time     `json:"kickoff_at"`
}

// TrainingSample pairs an engineered feature vector with the observed
// outcome label.
type TrainingSample struct {
	Features *FeatureVector `json:"-"`
	Label    int            `json:"label"`
}
