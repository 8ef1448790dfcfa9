package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/smoralesdev/volley-panel/internal/model"
)

func (c *Client) ListMatches(ctx context.Context, filters url.Values) ([]model.Match, error) {
	var out []model.Match
	if err := c.get(ctx, "/api/matches/", filters, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateMatch(ctx context.Context, m model.Match) (model.Match, error) {
	var out model.Match
	if err := c.post(ctx, "/api/matches/", m, &out); err != nil {
		return model.Match{}, err
	}
	return out, nil
}

func (c *Client) GetMatch(ctx context.Context, id int) (model.Match, error) {
	var out model.Match
	if err := c.get(ctx, fmt.Sprintf("/api/matches/%d/", id), nil, &out); err != nil {
		return model.Match{}, err
	}
	return out, nil
}

func (c *Client) UpdateMatch(ctx context.Context, id int, m model.Match) (model.Match, error) {
	var out model.Match
	if err := c.put(ctx, fmt.Sprintf("/api/matches/%d/", id), m, &out); err != nil {
		return model.Match{}, err
	}
	return out, nil
}

func (c *Client) DeleteMatch(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/matches/%d/", id), nil)
}

// GetProgress fetches the authoritative scoring state. Sets-won counts and
// set/match-point rules live server-side; this is the only place the panel
// learns them.
func (c *Client) GetProgress(ctx context.Context, id int) (model.Progress, error) {
	var out model.Progress
	if err := c.get(ctx, fmt.Sprintf("/api/matches/%d/performance/", id), nil, &out); err != nil {
		return model.Progress{}, err
	}
	return out, nil
}

func (c *Client) AddPerformance(ctx context.Context, id int, d model.PerformanceDelta) error {
	return c.patch(ctx, fmt.Sprintf("/api/matches/%d/performance/", id), d, nil)
}

// RevertPerformance sends the inverse delta with a body-carrying DELETE; the
// backend subtracts the given amounts.
func (c *Client) RevertPerformance(ctx context.Context, id int, d model.PerformanceDelta) error {
	return c.delete(ctx, fmt.Sprintf("/api/matches/%d/performance/", id), d)
}

func (c *Client) Substitute(ctx context.Context, id int, sub model.Substitution) error {
	return c.post(ctx, fmt.Sprintf("/api/matches/%d/substitute/", id), sub, nil)
}

func (c *Client) Timeout(ctx context.Context, id int, team model.TeamSide) error {
	body := struct {
		Team model.TeamSide `json:"team"`
	}{Team: team}
	return c.post(ctx, fmt.Sprintf("/api/matches/%d/timeout/", id), body, nil)
}

func (c *Client) StartMatch(ctx context.Context, id int) error {
	return c.post(ctx, fmt.Sprintf("/api/matches/%d/start/", id), nil, nil)
}

func (c *Client) EndMatch(ctx context.Context, id int) error {
	return c.post(ctx, fmt.Sprintf("/api/matches/%d/end/", id), nil, nil)
}

func (c *Client) StartSet(ctx context.Context, id int) error {
	return c.post(ctx, fmt.Sprintf("/api/matches/%d/set/start/", id), nil, nil)
}

func (c *Client) EndSet(ctx context.Context, id int) error {
	return c.post(ctx, fmt.Sprintf("/api/matches/%d/set/end/", id), nil, nil)
}

// MatchWeather is the stored enrichment the backend attaches to a match.
func (c *Client) MatchWeather(ctx context.Context, id int) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, fmt.Sprintf("/api/matches/%d/weather/", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
