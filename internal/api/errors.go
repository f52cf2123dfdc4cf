package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidResponse is wrapped by every error caused by a response body that is not a well formed envelope.
var ErrInvalidResponse = errors.New("invalid api response")

const unknownErrorMessage = "unknown error"

// ErrUnknown matches, through errors.Is, the failure reported when the server does not say why.
// Envelope.Err returns a fresh copy, so changing ErrUnknown does not affect decoded envelopes.
var ErrUnknown = newUnknownError()

func newUnknownError() *Error {
	return &Error{Code: 0, Message: unknownErrorMessage}
}

// Error is the structured error carried by an envelope with Status "error".
// Code is usually the http status code chosen by the server.
type Error struct {
	Code    int    `json:"Code"`
	Message string `json:"Error"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error [%d]: %s", e.Code, e.Message)
}

// UnmarshalJSON accepts any integral JSON number as the code, including 404.0.
func (e *Error) UnmarshalJSON(data []byte) error {
	var wire struct {
		Code    json.Number `json:"Code"`
		Message string      `json:"Error"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	code, err := integralCode(wire.Code)
	if err != nil {
		return err
	}

	*e = Error{Code: code, Message: wire.Message}
	return nil
}

func integralCode(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	if i, err := n.Int64(); err == nil && i >= math.MinInt32 && i <= math.MaxInt32 {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("error code %s is not an integer", n)
	}
	return int(f), nil
}

// Is reports whether target is an *Error with the same code and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil || e == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func invalidResponse(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidResponse, fmt.Sprintf(format, args...))
}
