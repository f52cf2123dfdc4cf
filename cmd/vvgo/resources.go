package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/virtual-vgo/portal/internal/api"
)

func (a *app) projectsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := a.client.Projects(cmd.Context())
			if err != nil {
				return err
			}

			if !all {
				visible := make([]api.Project, 0, len(projects))
				for _, p := range projects {
					if !p.Hidden {
						visible = append(visible, p)
					}
				}
				projects = visible
			}
			return a.renderer.Render(projects)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include hidden projects")
	return cmd
}

func (a *app) partsCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "parts",
		Short: "List parts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parts, err := a.client.Parts(cmd.Context())
			if err != nil {
				return err
			}

			if project != "" {
				matched := make([]api.Part, 0, len(parts))
				for _, p := range parts {
					if p.Project == project {
						matched = append(matched, p)
					}
				}
				parts = matched
			}
			return a.renderer.Render(parts)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "only show parts for this project")
	return cmd
}

func (a *app) sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage login sessions",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := a.client.Sessions(cmd.Context())
			if err != nil {
				return err
			}
			return a.renderer.Render(sessions)
		},
	}

	var (
		kind    string
		roles   []string
		expires time.Duration
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a session and print its key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if expires < time.Second {
				return fmt.Errorf("--expires must be at least 1s, got %s", expires)
			}

			params := api.SessionParams{
				Kind:    kind,
				Roles:   make([]api.Role, len(roles)),
				Expires: int(expires / time.Second),
			}
			for i, r := range roles {
				params.Roles[i] = api.Role(r)
			}

			sessions, err := a.client.CreateSessions(cmd.Context(), []api.SessionParams{params})
			if err != nil {
				return err
			}
			return a.renderer.Render(sessions)
		},
	}
	create.Flags().StringVar(&kind, "kind", "api_token", "session kind")
	create.Flags().StringSliceVar(&roles, "role", nil, "role to grant (repeatable)")
	create.Flags().DurationVar(&expires, "expires", 24*time.Hour, "session lifetime")

	del := &cobra.Command{
		Use:   "delete <key>...",
		Short: "Delete sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteSessions(cmd.Context(), args); err != nil {
				return err
			}
			a.logger.Info("sessions deleted", "count", len(args))
			return nil
		},
	}

	cmd.AddCommand(list, create, del)
	return cmd
}

func (a *app) mixtapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mixtape",
		Short: "Manage mixtape projects",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List mixtape projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := a.client.MixtapeProjects(cmd.Context())
			if err != nil {
				return err
			}
			return a.renderer.Render(projects)
		},
	}

	save := &cobra.Command{
		Use:   "save <file>",
		Short: "Create or update mixtape projects from a JSON file (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var projects []api.MixtapeProject
			if err := a.readJSON(args[0], &projects); err != nil {
				return err
			}

			saved, err := a.client.SaveMixtapeProjects(cmd.Context(), projects)
			if err != nil {
				return err
			}
			return a.renderer.Render(saved)
		},
	}

	del := &cobra.Command{
		Use:   "delete <name>...",
		Short: "Delete mixtape projects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteMixtapeProjects(cmd.Context(), args); err != nil {
				return err
			}
			a.logger.Info("mixtape projects deleted", "count", len(args))
			return nil
		},
	}

	cmd.AddCommand(list, save, del)
	return cmd
}

func (a *app) guildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guild",
		Short: "Discord guild members",
	}

	var limit int
	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search guild members by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := a.client.SearchGuildMembers(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return a.renderer.Render(members)
		},
	}
	search.Flags().IntVar(&limit, "limit", 10, "maximum number of members")

	cmd.AddCommand(search)
	return cmd
}

func (a *app) creditsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "credits <project>",
		Short: "Show the credits for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			credits, err := a.client.CreditsTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.renderer.Render(credits)
		},
	}
}

func (a *app) datasetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dataset <name>",
		Short: "Show a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, err := a.client.Dataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.renderer.Render(dataset)
		},
	}
}

// readJSON decodes the file at path, or stdin when path is "-", into v.
func (a *app) readJSON(path string, v any) error {
	r := a.stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}
