package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/virtual-vgo/portal/internal/api"
)

type createSessionsRequest struct {
	Sessions []api.SessionParams
}

type deleteSessionsRequest struct {
	Sessions []string
}

// Sessions lists active sessions (requires the vvgo-developer role).
func (c *Client) Sessions(ctx context.Context) ([]api.Session, error) {
	env, err := c.get(ctx, "/sessions", nil)
	if err != nil {
		return nil, err
	}
	return env.Sessions(), nil
}

// CreateSessions creates one session per params entry and returns them with their keys.
func (c *Client) CreateSessions(ctx context.Context, params []api.SessionParams) ([]api.Session, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("no sessions to create")
	}
	env, err := c.sendJSON(ctx, http.MethodPost, "/sessions", createSessionsRequest{Sessions: params})
	if err != nil {
		return nil, err
	}
	return env.Sessions(), nil
}

// DeleteSessions revokes the sessions with the given keys.
func (c *Client) DeleteSessions(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return fmt.Errorf("no sessions to delete")
	}
	_, err := c.sendJSON(ctx, http.MethodDelete, "/sessions", deleteSessionsRequest{Sessions: keys})
	return err
}
