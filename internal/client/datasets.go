package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/virtual-vgo/portal/internal/api"
)

// CreditsTable returns the credits for one project, grouped for display.
func (c *Client) CreditsTable(ctx context.Context, project string) (api.CreditsTable, error) {
	if project == "" {
		return nil, fmt.Errorf("project is required")
	}
	env, err := c.get(ctx, "/credits/table", url.Values{"project": {project}})
	if err != nil {
		return nil, err
	}
	return env.CreditsTable(), nil
}

// Dataset returns a named spreadsheet-backed dataset.
func (c *Client) Dataset(ctx context.Context, name string) (api.Dataset, error) {
	if name == "" {
		return nil, fmt.Errorf("dataset name is required")
	}
	env, err := c.get(ctx, "/dataset", url.Values{"name": {name}})
	if err != nil {
		return nil, err
	}
	return env.Dataset(), nil
}
