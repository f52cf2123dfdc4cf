package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/virtual-vgo/portal/internal/api"
)

type timeoutError struct{}

func (timeoutError) Error() string { return "i/o timeout" }
func (timeoutError) Timeout() bool { return true }
func (timeoutError) Temporary() bool { return true }

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unauthorized", &api.Error{Code: 401, Message: "unauthorized"}, "You are not logged in or your session has expired. Please log in and try again."},
		{"forbidden", &api.Error{Code: 403, Message: "forbidden"}, "You don't have permission to access this resource."},
		{"bad request uses server message", &api.Error{Code: 400, Message: "name is required"}, "name is required"},
		{"bad request without message", &api.Error{Code: 400}, "Invalid request. Please check your input and try again."},
		{"unavailable", &api.Error{Code: 503, Message: "down"}, "The service is temporarily unavailable. Please try again later."},
		{"unknown", api.ErrUnknown, "An error occurred. Please try again."},
		{"invalid response", fmt.Errorf("GET /projects: %w", api.ErrInvalidResponse), "The server sent a response that could not be understood. Please try again later."},
		{"cancelled", context.Canceled, "The request was cancelled."},
		{"timeout", &url.Error{Op: "Get", URL: "https://vvgo.org", Err: timeoutError{}}, "The request timed out. Please check your connection and try again."},
		{"connection refused", &url.Error{Op: "Get", URL: "https://vvgo.org", Err: errors.New("connection refused")}, "Unable to connect. Please check your internet connection and try again."},
		{"other", errors.New("project is required"), "project is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
