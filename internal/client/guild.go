package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/virtual-vgo/portal/internal/api"
)

// SearchGuildMembers finds discord guild members whose name starts with query.
// limit <= 0 leaves the page size to the server.
func (c *Client) SearchGuildMembers(ctx context.Context, query string, limit int) ([]api.GuildMember, error) {
	q := url.Values{}
	q.Set("query", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	env, err := c.get(ctx, "/guild_members/search", q)
	if err != nil {
		return nil, err
	}
	return env.GuildMembers(), nil
}
