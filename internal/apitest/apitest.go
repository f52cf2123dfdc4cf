// Package apitest runs an in-process server that answers with vvgo api envelopes.
// It records every request so tests can check what the client sent.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/virtual-vgo/portal/internal/api"
)

// Target is the api root the routes are mounted under.
const Target = "/api/v1"

// Request is a copy of a request received by the server.
type Request struct {
	Method    string
	Path      string
	RawQuery  string
	Header    http.Header
	Body      []byte
	RequestID string
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
}

// NewServer starts a server with the routes registered by routes mounted under Target.
// The server is closed when the test ends.
func NewServer(t testing.TB, routes func(r chi.Router)) *Server {
	t.Helper()

	s := &Server{}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.record)
	r.Route(Target, routes)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Origin is the scheme and host clients should use with Target.
func (s *Server) Origin() string {
	return s.URL
}

// Requests returns the requests received so far, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request and false if there has been none.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			RawQuery:  r.URL.RawQuery,
			Header:    r.Header.Clone(),
			Body:      body,
			RequestID: middleware.GetReqID(r.Context()),
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// RespondOK writes an ok envelope carrying the given payload fields.
func RespondOK(w http.ResponseWriter, payload map[api.Field]any) {
	envelope := map[string]any{"Status": api.StatusOK}
	for field, v := range payload {
		envelope[string(field)] = v
	}
	RespondWithJSON(w, http.StatusOK, envelope)
}

// RespondWithError writes an error envelope; the api uses the http status as the error code.
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, map[string]any{
		"Status": api.StatusError,
		"Error":  api.Error{Code: statusCode, Message: message},
	})
}

func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"Status":"error","Error":{"Code":500,"Error":"Internal Server Error"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// RespondWithBody writes body verbatim, for responses that are not envelopes.
func RespondWithBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}
}

// StaticOK returns a handler that always answers with the same ok envelope.
func StaticOK(payload map[api.Field]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondOK(w, payload)
	}
}
