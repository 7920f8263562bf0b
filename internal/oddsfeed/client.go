// Package oddsfeed collects bookmaker odds from the upstream odds API and
// exposes them as quote sets keyed by fixture.
package oddsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/config"
	"github.com/yourusername/sportcast/internal/metrics"
	"github.com/yourusername/sportcast/internal/models"
)

// sportKeys maps internal sport identifiers to the feed's sport keys.
var sportKeys = map[string]string{
	"premier_league": "soccer_epl",
	"la_liga":        "soccer_spain_la_liga",
	"mls":            "soccer_usa_mls",
	"nba":            "basketball_nba",
	"nfl":            "americanfootball_nfl",
	"mlb":            "baseball_mlb",
	"nhl":            "icehockey_nhl",
	"tennis":         "tennis_atp",
}

// apiEvent mirrors one event in the feed's odds response.
type apiEvent struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	CommenceTime time.Time      `json:"commence_time"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	Bookmakers   []apiBookmaker `json:"bookmakers"`
}

type apiBookmaker struct {
	Key     string      `json:"key"`
	Title   string      `json:"title"`
	Markets []apiMarket `json:"markets"`
}

type apiMarket struct {
	Key      string       `json:"key"`
	Outcomes []apiOutcome `json:"outcomes"`
}

type apiOutcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// Client fetches bookmaker quotes over HTTP. Responses are cached per sport
// so repeated predictions within the TTL reuse one upstream call.
type Client struct {
	cfg    config.OddsFeedConfig
	http   *RateLimitedHTTPClient
	cache  *gocache.Cache
	logger *logrus.Logger
}

// NewClient creates an odds feed client from configuration.
func NewClient(cfg config.OddsFeedConfig, logger *logrus.Logger) *Client {
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.RetryAttempts
	httpCfg.RateLimit = cfg.RateLimitPerSecond

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second

	return &Client{
		cfg:    cfg,
		http:   NewRateLimitedHTTPClient(httpCfg, logger),
		cache:  gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Quotes returns all bookmaker quotes for the fixture. A fixture absent
// from the feed yields an empty slice, not an error.
func (c *Client) Quotes(ctx context.Context, match *models.Match) ([]models.OddsQuote, error) {
	events, err := c.FetchEvents(ctx, match.Sport)
	if err != nil {
		return nil, err
	}

	for _, ev := range events {
		if matchesFixture(ev, match) {
			return flattenEvent(ev), nil
		}
	}

	c.logger.WithFields(logrus.Fields{
		"sport":     match.Sport,
		"home_team": match.HomeTeam.Name,
		"away_team": match.AwayTeam.Name,
	}).Debug("Fixture not present in odds feed")

	return nil, nil
}

// FetchEvents returns the current odds events for a sport, serving from
// cache within the configured TTL. The scheduler calls this directly to
// keep the cache warm.
func (c *Client) FetchEvents(ctx context.Context, sport string) ([]apiEvent, error) {
	if cached, found := c.cache.Get(sport); found {
		return cached.([]apiEvent), nil
	}

	start := time.Now()
	events, err := c.fetchEventsRemote(ctx, sport)
	if err != nil {
		metrics.RecordOddsFetch("error", time.Since(start).Seconds())
		return nil, err
	}
	metrics.RecordOddsFetch("success", time.Since(start).Seconds())

	c.cache.Set(sport, events, gocache.DefaultExpiration)
	return events, nil
}

// Snapshots fetches the current events for a sport and converts every
// quote into a timestamped snapshot for persistence.
func (c *Client) Snapshots(ctx context.Context, sport string) ([]*models.OddsSnapshot, error) {
	events, err := c.FetchEvents(ctx, sport)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var snapshots []*models.OddsSnapshot
	for _, ev := range events {
		for _, quote := range flattenEvent(ev) {
			snapshots = append(snapshots, &models.OddsSnapshot{
				OddsQuote:  quote,
				Sport:      sport,
				EventID:    ev.ID,
				CapturedAt: now,
			})
		}
	}
	return snapshots, nil
}

// InvalidateSport drops the cached events for a sport.
func (c *Client) InvalidateSport(sport string) {
	c.cache.Delete(sport)
}

// Close releases HTTP resources.
func (c *Client) Close() error {
	return c.http.Close()
}

func (c *Client) fetchEventsRemote(ctx context.Context, sport string) ([]apiEvent, error) {
	endpoint, err := c.oddsURL(sport)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetching odds: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("odds feed returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var events []apiEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decoding odds response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"sport":  sport,
		"events": len(events),
	}).Debug("Fetched odds events")

	return events, nil
}

func (c *Client) oddsURL(sport string) (string, error) {
	key, ok := sportKeys[sport]
	if !ok {
		key = sport
	}

	base, err := url.Parse(c.cfg.APIURL)
	if err != nil {
		return "", fmt.Errorf("invalid odds feed URL: %w", err)
	}
	base.Path = strings.TrimRight(base.Path, "/") + "/sports/" + key + "/odds"

	q := base.Query()
	q.Set("apiKey", c.cfg.APIKey)
	q.Set("regions", strings.Join(c.cfg.Regions, ","))
	q.Set("markets", strings.Join(c.cfg.Markets, ","))
	q.Set("oddsFormat", "decimal")
	q.Set("dateFormat", "iso")
	base.RawQuery = q.Encode()

	return base.String(), nil
}

// matchesFixture compares feed team names to the fixture case-insensitively.
func matchesFixture(ev apiEvent, match *models.Match) bool {
	return strings.EqualFold(ev.HomeTeam, match.HomeTeam.Name) &&
		strings.EqualFold(ev.AwayTeam, match.AwayTeam.Name)
}

// flattenEvent converts one feed event into the flat quote list the odds
// analyzer consumes.
func flattenEvent(ev apiEvent) []models.OddsQuote {
	var quotes []models.OddsQuote
	for _, bk := range ev.Bookmakers {
		for _, market := range bk.Markets {
			for _, outcome := range market.Outcomes {
				if outcome.Price <= 1.0 {
					continue
				}
				quotes = append(quotes, models.OddsQuote{
					Bookmaker: bk.Key,
					MarketKey: market.Key,
					Outcome:   canonicalOutcome(ev, outcome.Name),
					Price:     outcome.Price,
					Point:     outcome.Point,
				})
			}
		}
	}
	return quotes
}

// canonicalOutcome maps feed outcome names, which use team names for h2h
// and spreads, onto the analyzer's outcome vocabulary.
func canonicalOutcome(ev apiEvent, name string) string {
	switch {
	case strings.EqualFold(name, ev.HomeTeam):
		return models.OutcomeNameHome
	case strings.EqualFold(name, ev.AwayTeam):
		return models.OutcomeNameAway
	case strings.EqualFold(name, "draw"):
		return models.OutcomeNameDraw
	case strings.EqualFold(name, "over"):
		return models.OutcomeNameOver
	case strings.EqualFold(name, "under"):
		return models.OutcomeNameUnder
	}
	return strings.ToLower(name)
}
