// Package analysis provides heuristic match and team analyzers whose signals
// feed the recommendation blender alongside the ML distribution.
package analysis

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/models"
)

// formWindow is how many recent matches feed the form summary.
const formWindow = 5

// AdvantageSide labels which side a signal favours.
const (
	AdvantageHome    = "home"
	AdvantageAway    = "away"
	AdvantageNeutral = "neutral"
)

// FormSummary summarizes a team's recent results.
type FormSummary struct {
	PointsPerGame       float64 `json:"points_per_game"`
	GoalsPerGame        float64 `json:"goals_per_game"`
	GoalsAgainstPerGame float64 `json:"goals_against_per_game"`
	WinRate             float64 `json:"win_rate"`
	MatchesAnalyzed     int     `json:"matches_analyzed"`
}

// FormAnalysis compares both teams' recent form.
type FormAnalysis struct {
	Home       FormSummary `json:"home"`
	Away       FormSummary `json:"away"`
	Difference float64     `json:"difference"`
	Advantage  string      `json:"advantage"`
}

// HeadToHeadAnalysis summarizes the historical record between the teams.
type HeadToHeadAnalysis struct {
	TotalMatches int     `json:"total_matches"`
	HomeWins     int     `json:"home_wins"`
	AwayWins     int     `json:"away_wins"`
	Draws        int     `json:"draws"`
	HomeWinRate  float64 `json:"home_win_rate"`
	AwayWinRate  float64 `json:"away_win_rate"`
	Advantage    string  `json:"advantage"`
}

// HomeAdvantageAnalysis scores the home-field factor.
type HomeAdvantageAnalysis struct {
	HomeRecordWinRate float64 `json:"home_record_win_rate"`
	SportBaseline     float64 `json:"sport_baseline"`
	VenueFactor       float64 `json:"venue_factor"`
	Total             float64 `json:"total"`
	Strength          string  `json:"strength"`
}

// StrengthAnalysis compares overall team strength.
type StrengthAnalysis struct {
	Home       float64 `json:"home"`
	Away       float64 `json:"away"`
	Difference float64 `json:"difference"`
	Advantage  string  `json:"advantage"`
}

// MatchAnalysis bundles every heuristic signal for one fixture.
type MatchAnalysis struct {
	RecentForm    FormAnalysis          `json:"recent_form"`
	HeadToHead    HeadToHeadAnalysis    `json:"head_to_head"`
	HomeAdvantage HomeAdvantageAnalysis `json:"home_advantage"`
	TeamStrength  StrengthAnalysis      `json:"team_strength"`
	KeyInsights   []string              `json:"key_insights"`
	Confidence    float64               `json:"confidence"`
}

// sportHomeAdvantage holds typical home-win baselines per sport.
var sportHomeAdvantage = map[string]float64{
	"mls":            0.55,
	"premier_league": 0.52,
	"la_liga":        0.54,
	"bundesliga":     0.53,
	"serie_a":        0.52,
	"nba":            0.58,
	"nfl":            0.57,
	"nhl":            0.55,
	"mlb":            0.54,
}

const defaultHomeAdvantage = 0.53

// MatchAnalyzer derives heuristic prediction signals from match context.
type MatchAnalyzer struct {
	sport  string
	logger *logrus.Logger
}

// NewMatchAnalyzer creates an analyzer for a sport.
func NewMatchAnalyzer(sport string, logger *logrus.Logger) *MatchAnalyzer {
	return &MatchAnalyzer{sport: sport, logger: logger}
}

// Analyze runs every heuristic over the fixture.
func (a *MatchAnalyzer) Analyze(match *models.Match) *MatchAnalysis {
	analysis := &MatchAnalysis{
		RecentForm:    a.analyzeForm(match),
		HeadToHead:    a.analyzeHeadToHead(match),
		HomeAdvantage: a.analyzeHomeAdvantage(match),
		TeamStrength:  a.analyzeStrength(match),
	}
	analysis.KeyInsights = a.insights(analysis)
	analysis.Confidence = a.confidence(analysis)

	a.logger.WithFields(logrus.Fields{
		"match_id":   match.ID,
		"confidence": analysis.Confidence,
	}).Debug("Match analysis completed")
	return analysis
}

func (a *MatchAnalyzer) analyzeForm(match *models.Match) FormAnalysis {
	home := teamForm(match.HomeTeam)
	away := teamForm(match.AwayTeam)
	diff := home.PointsPerGame - away.PointsPerGame

	advantage := AdvantageNeutral
	if diff > 0.5 {
		advantage = AdvantageHome
	} else if diff < -0.5 {
		advantage = AdvantageAway
	}
	return FormAnalysis{Home: home, Away: away, Difference: diff, Advantage: advantage}
}

// teamForm summarizes the last formWindow results for a team. With no
// history the summary stays neutral.
func teamForm(team models.Team) FormSummary {
	matches := recentFirst(team.RecentMatches)
	if len(matches) > formWindow {
		matches = matches[:formWindow]
	}
	if len(matches) == 0 {
		return FormSummary{PointsPerGame: 1.0, GoalsPerGame: 1.0, GoalsAgainstPerGame: 1.0, WinRate: 0.33}
	}

	wins, draws, goalsFor, goalsAgainst := 0, 0, 0, 0
	for _, m := range matches {
		scoredFor, scoredAgainst := m.HomeScore, m.AwayScore
		won := m.Winner() == models.OutcomeHomeWin
		if m.AwayTeam == team.Name {
			scoredFor, scoredAgainst = m.AwayScore, m.HomeScore
			won = m.Winner() == models.OutcomeAwayWin
		}
		switch {
		case won:
			wins++
		case m.Winner() == models.OutcomeDraw:
			draws++
		}
		goalsFor += scoredFor
		goalsAgainst += scoredAgainst
	}
	n := float64(len(matches))
	return FormSummary{
		PointsPerGame:       (float64(wins)*3 + float64(draws)) / n,
		GoalsPerGame:        float64(goalsFor) / n,
		GoalsAgainstPerGame: float64(goalsAgainst) / n,
		WinRate:             float64(wins) / n,
		MatchesAnalyzed:     len(matches),
	}
}

func (a *MatchAnalyzer) analyzeHeadToHead(match *models.Match) HeadToHeadAnalysis {
	h2h := HeadToHeadAnalysis{Advantage: AdvantageNeutral}
	for _, m := range match.HeadToHead {
		winner := m.Winner()
		homeSide := m.HomeTeam == match.HomeTeam.Name
		switch {
		case winner == models.OutcomeDraw:
			h2h.Draws++
		case (winner == models.OutcomeHomeWin) == homeSide:
			h2h.HomeWins++
		default:
			h2h.AwayWins++
		}
	}
	h2h.TotalMatches = len(match.HeadToHead)
	if h2h.TotalMatches > 0 {
		h2h.HomeWinRate = float64(h2h.HomeWins) / float64(h2h.TotalMatches)
		h2h.AwayWinRate = float64(h2h.AwayWins) / float64(h2h.TotalMatches)
	} else {
		h2h.HomeWinRate = 0.33
		h2h.AwayWinRate = 0.33
	}
	// A side needs more than a two-win lead before the record counts as an
	// advantage.
	if h2h.HomeWins > h2h.AwayWins+2 {
		h2h.Advantage = AdvantageHome
	} else if h2h.AwayWins > h2h.HomeWins+2 {
		h2h.Advantage = AdvantageAway
	}
	return h2h
}

func (a *MatchAnalyzer) analyzeHomeAdvantage(match *models.Match) HomeAdvantageAnalysis {
	stats := match.HomeTeam.Stats
	homeWinRate := 0.5
	if stats.HomeMatches > 0 {
		homeWinRate = float64(stats.HomeWins) / float64(stats.HomeMatches)
	}
	baseline, ok := sportHomeAdvantage[a.sport]
	if !ok {
		baseline = defaultHomeAdvantage
	}
	venueFactor := 1.0

	total := homeWinRate*0.6 + baseline*0.3 + venueFactor*0.1
	strength := "weak"
	if total > 0.6 {
		strength = "strong"
	} else if total > 0.4 {
		strength = "moderate"
	}
	return HomeAdvantageAnalysis{
		HomeRecordWinRate: homeWinRate,
		SportBaseline:     baseline,
		VenueFactor:       venueFactor,
		Total:             total,
		Strength:          strength,
	}
}

func (a *MatchAnalyzer) analyzeStrength(match *models.Match) StrengthAnalysis {
	home := a.teamStrength(match.HomeTeam)
	away := a.teamStrength(match.AwayTeam)
	diff := home - away

	advantage := AdvantageNeutral
	if diff > 0.1 {
		advantage = AdvantageHome
	} else if diff < -0.1 {
		advantage = AdvantageAway
	}
	return StrengthAnalysis{Home: home, Away: away, Difference: diff, Advantage: advantage}
}

// teamStrength blends season stats with recent win rate into a [0,1] score.
func (a *MatchAnalyzer) teamStrength(team models.Team) float64 {
	var factors []float64
	stats := team.Stats

	switch a.sport {
	case "nba":
		if stats.PointsPerGame > 0 {
			factors = append(factors, clamp01(stats.PointsPerGame/120))
		}
		if stats.FieldGoalPercentage > 0 {
			factors = append(factors, stats.FieldGoalPercentage)
		}
	case "nfl":
		if stats.PointsPerGame > 0 {
			factors = append(factors, clamp01(stats.PointsPerGame/35))
		}
		if stats.YardsPerGame > 0 {
			factors = append(factors, clamp01(stats.YardsPerGame/400))
		}
	default:
		if stats.MatchesPlayed > 0 {
			goalDiff := stats.GoalsFor - stats.GoalsAgainst
			factors = append(factors, clamp01(goalDiff/20+0.5))
		}
		if stats.PointsPerGame > 0 {
			factors = append(factors, clamp01(stats.PointsPerGame/3))
		}
	}

	factors = append(factors, teamForm(team).WinRate)

	sum := 0.0
	for _, f := range factors {
		sum += f
	}
	return sum / float64(len(factors))
}

func (a *MatchAnalyzer) insights(analysis *MatchAnalysis) []string {
	var insights []string
	form := analysis.RecentForm
	switch form.Advantage {
	case AdvantageHome:
		insights = append(insights, fmt.Sprintf("Home team has superior recent form (difference: %.2f)", form.Difference))
	case AdvantageAway:
		insights = append(insights, fmt.Sprintf("Away team has superior recent form (difference: %.2f)", -form.Difference))
	}

	h2h := analysis.HeadToHead
	if h2h.TotalMatches > 0 {
		switch h2h.Advantage {
		case AdvantageHome:
			insights = append(insights, fmt.Sprintf("Home team dominates head-to-head record (%d-%d-%d)", h2h.HomeWins, h2h.AwayWins, h2h.Draws))
		case AdvantageAway:
			insights = append(insights, fmt.Sprintf("Away team has head-to-head advantage (%d-%d-%d)", h2h.AwayWins, h2h.HomeWins, h2h.Draws))
		}
	}

	if analysis.HomeAdvantage.Strength == "strong" {
		insights = append(insights, fmt.Sprintf("Strong home advantage factor (%.2f)", analysis.HomeAdvantage.Total))
	}

	switch analysis.TeamStrength.Advantage {
	case AdvantageHome:
		insights = append(insights, "Home team has superior overall strength")
	case AdvantageAway:
		insights = append(insights, "Away team has superior overall strength")
	}

	if len(insights) > 5 {
		insights = insights[:5]
	}
	return insights
}

// confidence rates the analysis by data availability and by how consistently
// the individual signals point the same way.
func (a *MatchAnalyzer) confidence(analysis *MatchAnalysis) float64 {
	var factors []float64

	switch {
	case analysis.HeadToHead.TotalMatches >= 5:
		factors = append(factors, 0.8)
	case analysis.HeadToHead.TotalMatches >= 2:
		factors = append(factors, 0.6)
	default:
		factors = append(factors, 0.3)
	}

	homeMatches := analysis.RecentForm.Home.MatchesAnalyzed
	awayMatches := analysis.RecentForm.Away.MatchesAnalyzed
	switch {
	case homeMatches >= 5 && awayMatches >= 5:
		factors = append(factors, 0.8)
	case homeMatches >= 3 && awayMatches >= 3:
		factors = append(factors, 0.6)
	default:
		factors = append(factors, 0.4)
	}

	advantages := []string{
		analysis.RecentForm.Advantage,
		analysis.HeadToHead.Advantage,
		analysis.TeamStrength.Advantage,
	}
	agreeing := 0
	for _, adv := range advantages {
		if adv == advantages[0] {
			agreeing++
		}
	}
	if agreeing >= 2 {
		factors = append(factors, 0.7)
	} else {
		factors = append(factors, 0.5)
	}

	sum := 0.0
	for _, f := range factors {
		sum += f
	}
	return sum / float64(len(factors))
}

func recentFirst(matches []models.MatchResult) []models.MatchResult {
	sorted := make([]models.MatchResult, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PlayedAt.After(sorted[j].PlayedAt)
	})
	return sorted
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
