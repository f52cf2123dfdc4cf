package main

import (
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/virtual-vgo/portal/internal/client"
)

// fetchCmd sends an arbitrary request and prints the decoded envelope.
func (a *app) fetchCmd() *cobra.Command {
	var method, data string

	cmd := &cobra.Command{
		Use:   "fetch <path>",
		Short: "Send a request to an api path and print the response envelope",
		Example: `  vvgo fetch /projects
  vvgo fetch /sessions --method DELETE --data '{"Sessions":["abc"]}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}

			opts := &client.RequestOptions{Method: strings.ToUpper(method)}
			if data != "" {
				opts.Header = http.Header{"Content-Type": []string{"application/json"}}
				opts.Body = strings.NewReader(data)
			}

			env, err := a.client.Fetch(cmd.Context(), path, opts)
			if err != nil {
				return err
			}
			return a.renderer.JSON(env)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "http method")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	return cmd
}
