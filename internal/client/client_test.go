package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/virtual-vgo/portal/internal/api"
	"github.com/virtual-vgo/portal/internal/apitest"
)

func newTestClient(t *testing.T, srv *apitest.Server, token string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithOrigin(srv.Origin()),
		WithTarget(apitest.Target),
		WithLogger(slog.New(slog.DiscardHandler)),
	}, opts...)

	c, err := New(token, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		opts       []Option
		wantTarget string
		wantErr    bool
	}{
		{
			name:       "defaults",
			wantTarget: "https://vvgo.org/api/v1",
		},
		{
			name:       "relative target",
			opts:       []Option{WithOrigin("http://localhost:8080"), WithTarget("/api/v2")},
			wantTarget: "http://localhost:8080/api/v2",
		},
		{
			name:       "absolute target ignores origin",
			opts:       []Option{WithOrigin("http://localhost:8080"), WithTarget("https://staging.vvgo.org/api/v1/")},
			wantTarget: "https://staging.vvgo.org/api/v1",
		},
		{
			name:    "target with query",
			opts:    []Option{WithTarget("/api/v1?x=1")},
			wantErr: true,
		},
		{
			name:    "unparseable target",
			opts:    []Option{WithTarget("http://[::1")},
			wantErr: true,
		},
		{
			name:    "origin without host",
			opts:    []Option{WithOrigin("localhost")},
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			opts:    []Option{WithTarget("ftp://vvgo.org/api/v1")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New("tok123", tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.Target() != tt.wantTarget {
				t.Errorf("Target() = %q, want %q", c.Target(), tt.wantTarget)
			}
		})
	}
}

func TestFetchEnvelopes(t *testing.T) {
	srv := apitest.NewServer(t, func(r chi.Router) {
		r.Get("/ok", apitest.RespondWithBody(`{"Status":"ok","Projects":[{"Name":"p1"}]}`))
		r.Get("/not-found", apitest.RespondWithBody(`{"Status":"error","Error":{"Code":404,"Error":"not found"}}`))
		r.Get("/unknown", apitest.RespondWithBody(`{"Status":"error"}`))
		r.Get("/error-with-payload", apitest.RespondWithBody(`{"Status":"error","Error":{"Code":404,"Error":"not found"},"Projects":"oops"}`))
		r.Get("/pending", apitest.RespondWithBody(`{"Status":"pending"}`))
		r.Get("/html", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		})
	})
	c := newTestClient(t, srv, "tok123")

	tests := []struct {
		name         string
		path         string
		wantProjects []api.Project
		wantAPIErr   *api.Error
		wantInvalid  bool
	}{
		{
			name:         "ok",
			path:         "/ok",
			wantProjects: []api.Project{{Name: "p1"}},
		},
		{
			name:       "error",
			path:       "/not-found",
			wantAPIErr: &api.Error{Code: 404, Message: "not found"},
		},
		{
			name:       "error with a malformed payload field",
			path:       "/error-with-payload",
			wantAPIErr: &api.Error{Code: 404, Message: "not found"},
		},
		{
			name:       "error without detail",
			path:       "/unknown",
			wantAPIErr: api.ErrUnknown,
		},
		{
			name:        "invalid discriminant",
			path:        "/pending",
			wantInvalid: true,
		},
		{
			name:        "not an envelope",
			path:        "/html",
			wantInvalid: true,
		},
		{
			name:        "unrouted path",
			path:        "/missing",
			wantInvalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := c.Fetch(context.Background(), tt.path, nil)

			switch {
			case tt.wantInvalid:
				if !errors.Is(err, api.ErrInvalidResponse) {
					t.Fatalf("Fetch() error = %v, want ErrInvalidResponse", err)
				}
				var apiErr *api.Error
				if errors.As(err, &apiErr) {
					t.Errorf("Fetch() error %v should not be an api error", err)
				}

			case tt.wantAPIErr != nil:
				var apiErr *api.Error
				if !errors.As(err, &apiErr) {
					t.Fatalf("Fetch() error = %v, want *api.Error", err)
				}
				if diff := cmp.Diff(tt.wantAPIErr, apiErr); diff != "" {
					t.Errorf("api error mismatch (-want +got):\n%s", diff)
				}
				if env != nil {
					t.Error("Fetch() returned an envelope with an error")
				}

			default:
				if err != nil {
					t.Fatalf("Fetch() error = %v", err)
				}
				if env.Status != api.StatusOK {
					t.Errorf("Status = %q, want ok", env.Status)
				}
				if diff := cmp.Diff(tt.wantProjects, env.Projects()); diff != "" {
					t.Errorf("Projects mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestFetchProjectsScenario(t *testing.T) {
	ok := apitest.NewServer(t, func(r chi.Router) {
		r.Get("/projects", apitest.RespondWithBody(`{"Status":"ok","Projects":[{"Name":"p1"}]}`))
	})
	denied := apitest.NewServer(t, func(r chi.Router) {
		r.Get("/projects", apitest.RespondWithBody(`{"Status":"error","Error":{"Code":401,"Error":"unauthorized"}}`))
	})

	env, err := newTestClient(t, ok, "tok123").Fetch(context.Background(), "/projects", nil)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if diff := cmp.Diff([]api.Project{{Name: "p1"}}, env.Projects()); diff != "" {
		t.Errorf("Projects mismatch (-want +got):\n%s", diff)
	}

	_, err = newTestClient(t, denied, "tok123").Fetch(context.Background(), "/projects", nil)
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Fetch() error = %v, want *api.Error", err)
	}
	if apiErr.Code != 401 || apiErr.Message != "unauthorized" {
		t.Errorf("api error = %+v, want {401 unauthorized}", apiErr)
	}
	if err.Error() != "api error [401]: unauthorized" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestFetchHeaders(t *testing.T) {
	srv := apitest.NewServer(t, func(r chi.Router) {
		r.HandleFunc("/echo", apitest.StaticOK(nil))
	})

	tests := []struct {
		name       string
		token      string
		header     http.Header
		wantHeader map[string]string
	}{
		{
			name:  "no caller headers",
			token: "tok123",
			wantHeader: map[string]string{
				"Authorization": "Bearer tok123",
			},
		},
		{
			name:  "caller headers are preserved",
			token: "tok123",
			header: http.Header{
				"Accept":    {"application/json"},
				"X-Feature": {"mixtape"},
			},
			wantHeader: map[string]string{
				"Authorization": "Bearer tok123",
				"Accept":        "application/json",
				"X-Feature":     "mixtape",
			},
		},
		{
			name:  "caller authorization is replaced",
			token: "tok123",
			header: http.Header{
				"Authorization": {"Bearer someone-else"},
				"authorization": {"Basic abc"},
			},
			wantHeader: map[string]string{
				"Authorization": "Bearer tok123",
			},
		},
		{
			name:  "caller request id is kept",
			token: "tok123",
			header: http.Header{
				"X-Request-Id": {"req-1"},
			},
			wantHeader: map[string]string{
				"Authorization": "Bearer tok123",
				"X-Request-Id":  "req-1",
			},
		},
		{
			name:  "anonymous",
			token: "",
			wantHeader: map[string]string{
				"Authorization": "Bearer",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, srv, tt.token)

			var sent http.Header
			if tt.header != nil {
				sent = tt.header.Clone()
			}
			if _, err := c.Fetch(context.Background(), "/echo", &RequestOptions{Header: sent}); err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}

			got, ok := srv.LastRequest()
			if !ok {
				t.Fatal("server received no request")
			}
			for name, want := range tt.wantHeader {
				if values := got.Header.Values(name); len(values) != 1 || strings.TrimSpace(values[0]) != want {
					t.Errorf("header %s = %q, want %q", name, values, want)
				}
			}
			if got.Header.Get("X-Request-Id") == "" {
				t.Error("request has no X-Request-Id")
			}
			if got.RequestID != got.Header.Get("X-Request-Id") {
				t.Errorf("server request id %q does not match header %q", got.RequestID, got.Header.Get("X-Request-Id"))
			}

			if diff := cmp.Diff(tt.header, sent); diff != "" {
				t.Errorf("caller headers were modified (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFetchRequestShape(t *testing.T) {
	srv := apitest.NewServer(t, func(r chi.Router) {
		r.HandleFunc("/sessions", apitest.StaticOK(nil))
	})
	c := newTestClient(t, srv, "tok123")

	opts, err := NewJSONRequest(http.MethodPost, map[string]any{"Sessions": []string{"a"}})
	if err != nil {
		t.Fatalf("NewJSONRequest() error = %v", err)
	}
	if _, err := c.Fetch(context.Background(), "/sessions", opts); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if _, err := c.Fetch(context.Background(), "/sessions", nil); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	reqs := srv.Requests()
	if len(reqs) != 2 {
		t.Fatalf("server received %d requests, want 2", len(reqs))
	}

	post := reqs[0]
	if post.Method != http.MethodPost || post.Path != "/api/v1/sessions" {
		t.Errorf("first request = %s %s, want POST /api/v1/sessions", post.Method, post.Path)
	}
	if got := post.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if string(post.Body) != `{"Sessions":["a"]}` {
		t.Errorf("body = %s", post.Body)
	}

	if get := reqs[1]; get.Method != http.MethodGet {
		t.Errorf("default method = %s, want GET", get.Method)
	}
}

func TestFetchNetworkErrorIsUnmodified(t *testing.T) {
	srv := apitest.NewServer(t, func(r chi.Router) {})
	c := newTestClient(t, srv, "tok123")
	srv.Close()

	_, err := c.Fetch(context.Background(), "/projects", nil)
	if err == nil {
		t.Fatal("Fetch() against a closed server succeeded")
	}

	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		t.Fatalf("Fetch() error = %T %v, want *url.Error", err, err)
	}
	if _, isURLErr := err.(*url.Error); !isURLErr {
		t.Errorf("Fetch() wrapped the transport error: %v", err)
	}
	if errors.Is(err, api.ErrInvalidResponse) {
		t.Error("a network error should not be reported as an invalid response")
	}
}

func TestFetchCancelledContext(t *testing.T) {
	srv := apitest.NewServer(t, func(r chi.Router) {
		r.Get("/projects", apitest.StaticOK(nil))
	})
	c := newTestClient(t, srv, "tok123")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Fetch(ctx, "/projects", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
}

func TestFetchRateLimit(t *testing.T) {
	srv := apitest.NewServer(t, func(r chi.Router) {
		r.Get("/projects", apitest.StaticOK(nil))
	})
	c := newTestClient(t, srv, "tok123", WithRateLimit(1, 1))

	if _, err := c.Fetch(context.Background(), "/projects", nil); err != nil {
		t.Fatalf("first Fetch() error = %v", err)
	}

	// the bucket is empty; a second request cannot be admitted before the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := c.Fetch(ctx, "/projects", nil); err == nil {
		t.Error("second Fetch() was not rate limited")
	}

	if got := len(srv.Requests()); got != 1 {
		t.Errorf("server received %d requests, want 1", got)
	}
}

func TestFetchConcurrent(t *testing.T) {
	srv := apitest.NewServer(t, func(r chi.Router) {
		r.Get("/projects/{name}", func(w http.ResponseWriter, r *http.Request) {
			apitest.RespondOK(w, map[api.Field]any{
				api.FieldProjects: []api.Project{{Name: chi.URLParam(r, "name")}},
			})
		})
	})
	c := newTestClient(t, srv, "tok123")

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	errs := make(chan error, len(names))
	for _, name := range names {
		go func() {
			env, err := c.Fetch(context.Background(), "/projects/"+name, nil)
			if err != nil {
				errs <- err
				return
			}
			if got := env.Projects(); len(got) != 1 || got[0].Name != name {
				errs <- errors.New("wrong project for " + name)
				return
			}
			errs <- nil
		}()
	}
	for range names {
		if err := <-errs; err != nil {
			t.Error(err)
		}
	}
}

func TestNewJSONRequest(t *testing.T) {
	opts, err := NewJSONRequest(http.MethodPost, struct{ User string }{User: "u"})
	if err != nil {
		t.Fatalf("NewJSONRequest() error = %v", err)
	}
	body, _ := io.ReadAll(opts.Body)

	var got map[string]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if got["User"] != "u" {
		t.Errorf("body = %s", body)
	}

	if _, err := NewJSONRequest(http.MethodPost, make(chan int)); err == nil {
		t.Error("NewJSONRequest() accepted an unmarshalable value")
	}
}
