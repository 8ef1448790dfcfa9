package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/smoralesdev/volley-panel/internal/model"
)

func (c *Client) ListTeams(ctx context.Context, filters url.Values) ([]model.Team, error) {
	var out []model.Team
	if err := c.get(ctx, "/api/teams/", filters, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTeam(ctx context.Context, t model.Team) (model.Team, error) {
	var out model.Team
	if err := c.post(ctx, "/api/teams/", t, &out); err != nil {
		return model.Team{}, err
	}
	return out, nil
}

func (c *Client) GetTeam(ctx context.Context, id int) (model.Team, error) {
	var out model.Team
	if err := c.get(ctx, fmt.Sprintf("/api/teams/%d/", id), nil, &out); err != nil {
		return model.Team{}, err
	}
	return out, nil
}

func (c *Client) UpdateTeam(ctx context.Context, id int, t model.Team) (model.Team, error) {
	var out model.Team
	if err := c.put(ctx, fmt.Sprintf("/api/teams/%d/", id), t, &out); err != nil {
		return model.Team{}, err
	}
	return out, nil
}

func (c *Client) DeleteTeam(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/teams/%d/", id), nil)
}

func (c *Client) GetPlayer(ctx context.Context, id int) (model.Player, error) {
	var out model.Player
	if err := c.get(ctx, fmt.Sprintf("/api/players/%d/", id), nil, &out); err != nil {
		return model.Player{}, err
	}
	return out, nil
}

func (c *Client) DeletePlayer(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/players/%d/", id), nil)
}

func (c *Client) ListTournaments(ctx context.Context, filters url.Values) ([]model.Tournament, error) {
	var out []model.Tournament
	if err := c.get(ctx, "/api/tournaments/", filters, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTournament(ctx context.Context, t model.Tournament) (model.Tournament, error) {
	var out model.Tournament
	if err := c.post(ctx, "/api/tournaments/", t, &out); err != nil {
		return model.Tournament{}, err
	}
	return out, nil
}

func (c *Client) UpdateTournament(ctx context.Context, id int, t model.Tournament) (model.Tournament, error) {
	var out model.Tournament
	if err := c.put(ctx, fmt.Sprintf("/api/tournaments/%d/", id), t, &out); err != nil {
		return model.Tournament{}, err
	}
	return out, nil
}

func (c *Client) DeleteTournament(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/tournaments/%d/", id), nil)
}
