package client

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"

	"github.com/virtual-vgo/portal/internal/api"
)

// UserMessage returns a user-friendly description of an error returned by the client.
// The detailed error should still be logged by the caller.
// Errors the client did not produce are returned as their own text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErrorMessage(apiErr)
	}

	if errors.Is(err, api.ErrInvalidResponse) {
		return "The server sent a response that could not be understood. Please try again later."
	}

	if errors.Is(err, context.Canceled) {
		return "The request was cancelled."
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "The request timed out. Please check your connection and try again."
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return "Unable to connect. Please check your internet connection and try again."
	}

	return err.Error()
}

func apiErrorMessage(err *api.Error) string {
	switch err.Code {
	case http.StatusUnauthorized:
		return "You are not logged in or your session has expired. Please log in and try again."
	case http.StatusForbidden:
		return "You don't have permission to access this resource."
	case http.StatusNotFound:
		return "The requested resource was not found."
	case http.StatusBadRequest:
		// use the server message for validation errors if available
		if err.Message != "" {
			return err.Message
		}
		return "Invalid request. Please check your input and try again."
	case http.StatusTooManyRequests:
		return "Too many requests. Please try again in a few moments."
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return "The service is temporarily unavailable. Please try again later."
	default:
		return "An error occurred. Please try again."
	}
}
