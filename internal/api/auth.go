package api

import (
	"context"

	"github.com/smoralesdev/volley-panel/internal/model"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the bearer token and the minimal profile the panel
// persists between runs.
type LoginResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	var res LoginResult
	if err := c.post(ctx, "/api/users/login/", creds, &res); err != nil {
		return LoginResult{}, err
	}
	c.SetToken(res.Token)
	return res, nil
}

func (c *Client) Register(ctx context.Context, reg Registration) (LoginResult, error) {
	var res LoginResult
	if err := c.post(ctx, "/api/users/register/", reg, &res); err != nil {
		return LoginResult{}, err
	}
	return res, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.post(ctx, "/api/users/logout/", nil, nil)
	c.ClearToken()
	return err
}
