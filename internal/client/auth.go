package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/virtual-vgo/portal/internal/api"
)

type passwordLoginRequest struct {
	User string
	Pass string
}

// Me returns the identity behind the client's token.
func (c *Client) Me(ctx context.Context) (api.Identity, error) {
	env, err := c.get(ctx, "/me", nil)
	if err != nil {
		return api.Identity{}, err
	}
	return env.Identity(), nil
}

// PasswordLogin exchanges a username and password for a new session.
// The returned identity's Key is the token for a new Client.
func (c *Client) PasswordLogin(ctx context.Context, user, pass string) (api.Identity, error) {
	if user == "" || pass == "" {
		return api.Identity{}, fmt.Errorf("user and password are required")
	}
	env, err := c.sendJSON(ctx, http.MethodPost, "/auth/password", passwordLoginRequest{User: user, Pass: pass})
	if err != nil {
		return api.Identity{}, err
	}
	identity := env.Identity()
	if identity.Key == "" {
		return api.Identity{}, fmt.Errorf("%w: login response has no session key", api.ErrInvalidResponse)
	}
	return identity, nil
}

// Logout ends the session behind the client's token.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Fetch(ctx, "/auth/logout", &RequestOptions{Method: http.MethodPost})
	return err
}

// OAuthRedirect returns the discord authorization url for the login page.
func (c *Client) OAuthRedirect(ctx context.Context) (api.OAuthRedirect, error) {
	env, err := c.get(ctx, "/oauth_redirect", nil)
	if err != nil {
		return api.OAuthRedirect{}, err
	}
	return env.OAuthRedirect(), nil
}
