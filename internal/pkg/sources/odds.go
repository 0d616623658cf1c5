package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Vodeneev/statjoin/internal/pkg/models"
)

// OddsRow is one bookmaker's moneyline for a game.
type OddsRow struct {
	Matchup       string    `json:"matchup"`
	Bookmaker     string    `json:"bookmaker"`
	HomeTeam      string    `json:"home_team"`
	AwayTeam      string    `json:"away_team"`
	MoneylineHome int       `json:"moneyline_home"`
	MoneylineAway int       `json:"moneyline_away"`
	CommenceTime  time.Time `json:"commence_time"`
}

// OddsClient fetches head-to-head odds from the-odds-api v4.
type OddsClient struct {
	baseURL    string
	apiKey     string
	regions    string
	markets    string
	httpClient *http.Client
}

// NewOddsClient creates a new odds feed client
func NewOddsClient(baseURL, apiKey, regions, markets string, timeout time.Duration) *OddsClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OddsClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		regions: regions,
		markets: markets,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type apiOutcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type apiMarket struct {
	Key      string       `json:"key"`
	Outcomes []apiOutcome `json:"outcomes"`
}

type apiBookmaker struct {
	Title   string      `json:"title"`
	Markets []apiMarket `json:"markets"`
}

type apiGame struct {
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	CommenceTime time.Time      `json:"commence_time"`
	Bookmakers   []apiBookmaker `json:"bookmakers"`
}

// FetchOdds fetches moneylines for a sport key such as "basketball_wnba".
func (c *OddsClient) FetchOdds(ctx context.Context, sportKey string) ([]OddsRow, error) {
	if c == nil {
		return nil, fmt.Errorf("odds client is not configured")
	}

	u, err := url.Parse(c.baseURL + "/v4/sports/" + url.PathEscape(sportKey) + "/odds")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("regions", c.regions)
	q.Set("markets", c.markets)
	q.Set("oddsFormat", "american")
	q.Set("apiKey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch odds: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var games []apiGame
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return rowsFromGames(games), nil
}

func rowsFromGames(games []apiGame) []OddsRow {
	var rows []OddsRow
	for _, g := range games {
		matchup := g.HomeTeam + " vs " + g.AwayTeam
		for _, bk := range g.Bookmakers {
			for _, m := range bk.Markets {
				if m.Key != "h2h" {
					continue
				}
				home, okHome := priceFor(m.Outcomes, g.HomeTeam)
				away, okAway := priceFor(m.Outcomes, g.AwayTeam)
				if !okHome || !okAway {
					continue
				}
				rows = append(rows, OddsRow{
					Matchup:       matchup,
					Bookmaker:     bk.Title,
					HomeTeam:      g.HomeTeam,
					AwayTeam:      g.AwayTeam,
					MoneylineHome: home,
					MoneylineAway: away,
					CommenceTime:  g.CommenceTime,
				})
			}
		}
	}
	return rows
}

// priceFor finds the outcome for team by name; feeds do not guarantee outcome order.
func priceFor(outcomes []apiOutcome, team string) (int, bool) {
	for _, o := range outcomes {
		if o.Name == team {
			return int(math.Round(o.Price)), true
		}
	}
	return 0, false
}

// Filter narrows odds rows the way the dashboard sidebar does.
type Filter struct {
	Search  string // case-insensitive substring of the matchup
	MinOdds int
	MaxOdds int // zero means no bounds
}

// FilterOdds keeps rows whose matchup contains Search and whose both moneylines are within [MinOdds, MaxOdds].
func FilterOdds(rows []OddsRow, f Filter) []OddsRow {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	bounded := f.MinOdds != 0 || f.MaxOdds != 0
	out := make([]OddsRow, 0, len(rows))
	for _, r := range rows {
		if search != "" && !strings.Contains(strings.ToLower(r.Matchup), search) {
			continue
		}
		if bounded && (!within(r.MoneylineHome, f.MinOdds, f.MaxOdds) || !within(r.MoneylineAway, f.MinOdds, f.MaxOdds)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func within(v, lo, hi int) bool {
	return v >= lo && v <= hi
}

// PicksFromOdds turns each row into a home pick and an away pick.
// Confidence is the implied probability of the price, in percent.
func PicksFromOdds(rows []OddsRow) []models.PickRecord {
	picks := make([]models.PickRecord, 0, 2*len(rows))
	for _, r := range rows {
		picks = append(picks,
			models.PickRecord{
				Matchup:      r.Matchup,
				TeamName:     r.HomeTeam,
				Side:         models.SideHome,
				Odds:         r.MoneylineHome,
				Confidence:   ImpliedProbability(r.MoneylineHome),
				Bookmaker:    r.Bookmaker,
				CommenceTime: r.CommenceTime,
			},
			models.PickRecord{
				Matchup:      r.Matchup,
				TeamName:     r.AwayTeam,
				Side:         models.SideAway,
				Odds:         r.MoneylineAway,
				Confidence:   ImpliedProbability(r.MoneylineAway),
				Bookmaker:    r.Bookmaker,
				CommenceTime: r.CommenceTime,
			},
		)
	}
	return picks
}

// ImpliedProbability converts American odds to a percentage rounded to two decimals.
// Odds between -100 and +100 are not valid American prices and give 0.
func ImpliedProbability(american int) float64 {
	var p float64
	switch {
	case american >= 100:
		p = 100 / float64(american+100)
	case american <= -100:
		a := float64(-american)
		p = a / (a + 100)
	default:
		return 0
	}
	return math.Round(p*10000) / 100
}
