package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity behind the current token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			return a.renderer.Render(identity)
		},
	}
}

func (a *app) loginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a username and password and save the session token",
		Long: `Log in with a username and password.

The session token is saved to the token file and used by later commands.
When --pass is not given the password is read from the first line of stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pass == "" {
				line, err := bufio.NewReader(a.stdin).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password from stdin: %w", err)
				}
				pass = strings.TrimRight(line, "\r\n")
			}

			identity, err := a.client.PasswordLogin(cmd.Context(), user, pass)
			if err != nil {
				return err
			}

			if err := a.store.Save(identity.Key); err != nil {
				return err
			}
			a.logger.Info("logged in", "kind", identity.Kind, "token_file", a.store.Path())

			identity.Key = ""
			return a.renderer.Render(identity)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "username")
	cmd.Flags().StringVar(&pass, "pass", "", "password (default: read from stdin)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session and remove the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			if err := a.store.Clear(); err != nil {
				return err
			}
			a.logger.Info("logged out")
			return nil
		},
	}
}

func (a *app) oauthURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "oauth-url",
		Short: "Print the discord login url",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			redirect, err := a.client.OAuthRedirect(cmd.Context())
			if err != nil {
				return err
			}
			if redirect.DiscordURL == "" {
				return fmt.Errorf("the server did not return a login url")
			}
			_, err = fmt.Fprintln(a.stdout, redirect.DiscordURL)
			return err
		},
	}
}
