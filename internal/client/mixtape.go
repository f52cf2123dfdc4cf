package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/virtual-vgo/portal/internal/api"
)

type saveMixtapeProjectsRequest struct {
	Projects []api.MixtapeProject
}

type deleteMixtapeProjectsRequest struct {
	Projects []string
}

// MixtapeProjects lists the projects shown on the member dashboard.
func (c *Client) MixtapeProjects(ctx context.Context) ([]api.MixtapeProject, error) {
	env, err := c.get(ctx, "/mixtape/projects", nil)
	if err != nil {
		return nil, err
	}
	return env.MixtapeProjects(), nil
}

// SaveMixtapeProjects creates or replaces mixtape projects and returns the stored versions.
func (c *Client) SaveMixtapeProjects(ctx context.Context, projects []api.MixtapeProject) ([]api.MixtapeProject, error) {
	if len(projects) == 0 {
		return nil, fmt.Errorf("no mixtape projects to save")
	}
	env, err := c.sendJSON(ctx, http.MethodPost, "/mixtape/projects", saveMixtapeProjectsRequest{Projects: projects})
	if err != nil {
		return nil, err
	}
	return env.MixtapeProjects(), nil
}

// DeleteMixtapeProjects removes mixtape projects by name.
func (c *Client) DeleteMixtapeProjects(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("no mixtape projects to delete")
	}
	_, err := c.sendJSON(ctx, http.MethodDelete, "/mixtape/projects", deleteMixtapeProjectsRequest{Projects: names})
	return err
}
