package client

import (
	"context"

	"github.com/virtual-vgo/portal/internal/api"
)

// Projects lists the projects visible to the caller.
func (c *Client) Projects(ctx context.Context) ([]api.Project, error) {
	env, err := c.get(ctx, "/projects", nil)
	if err != nil {
		return nil, err
	}
	return env.Projects(), nil
}

// Parts lists the parts of every released project.
func (c *Client) Parts(ctx context.Context) ([]api.Part, error) {
	env, err := c.get(ctx, "/parts", nil)
	if err != nil {
		return nil, err
	}
	return env.Parts(), nil
}
