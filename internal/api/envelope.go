// Package api describes the response envelope returned by every vvgo api endpoint.
//
// An envelope carries a Status discriminant and then either an Error (Status "error")
// or any number of named payload fields (Status "ok"):
//
//	{"Status":"ok","Projects":[{"Name":"p1"}]}
//	{"Status":"error","Error":{"Code":404,"Error":"not found"}}
//
// DecodeEnvelope validates the body against the envelope schema and decodes every
// registered payload field once, so callers only deal with typed values.
package api

import (
	"bytes"
	"encoding/json"
	"sort"
)

type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

const (
	statusKey = "Status"
	errorKey  = "Error"
)

// Envelope is a decoded api response.
// Exactly one of Error and the payload fields is populated, as selected by Status.
type Envelope struct {
	Status Status
	Error  *Error

	payload map[Field]any
	raw     map[string]json.RawMessage
}

// DecodeEnvelope parses a response body.
// Decode failures wrap ErrInvalidResponse.
// An envelope reporting Status "error" is returned without error; use Err to obtain the failure.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	if err := validateEnvelope(body); err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, invalidResponse("decoding envelope: %v", err)
	}

	var status string
	if err := json.Unmarshal(fields[statusKey], &status); err != nil {
		return nil, invalidResponse("decoding status: %v", err)
	}

	env := &Envelope{
		Status:  Status(status),
		payload: make(map[Field]any),
		raw:     make(map[string]json.RawMessage),
	}

	switch env.Status {
	case StatusError:
		rawErr, ok := fields[errorKey]
		if !ok || isNull(rawErr) {
			return env, nil
		}
		var apiErr Error
		if err := json.Unmarshal(rawErr, &apiErr); err != nil {
			return nil, invalidResponse("decoding error: %v", err)
		}
		if apiErr.Code != 0 || apiErr.Message != "" {
			env.Error = &apiErr
		}
		return env, nil

	case StatusOK:
		for name, value := range fields {
			if name == statusKey || name == errorKey {
				continue
			}
			decode, registered := decoders[Field(name)]
			if !registered {
				env.raw[name] = value
				continue
			}
			if isNull(value) {
				continue
			}
			v, err := decode(value)
			if err != nil {
				return nil, invalidResponse("decoding %s: %v", name, err)
			}
			env.payload[Field(name)] = v
		}
		return env, nil

	default:
		return nil, invalidResponse("unexpected status %q", status)
	}
}

// Err returns the failure reported by the envelope, ErrUnknown if the server did not say why, or nil for an ok envelope.
func (e *Envelope) Err() error {
	if e.Status != StatusError {
		return nil
	}
	if e.Error == nil {
		return newUnknownError()
	}
	return e.Error
}

// Has reports whether a registered payload field was present and non-null.
func (e *Envelope) Has(field Field) bool {
	_, ok := e.payload[field]
	return ok
}

// Fields lists the decoded payload fields in name order.
func (e *Envelope) Fields() []Field {
	fields := make([]Field, 0, len(e.payload))
	for f := range e.payload {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// Raw returns a payload field the client has no decoder for.
func (e *Envelope) Raw(name string) (json.RawMessage, bool) {
	v, ok := e.raw[name]
	return v, ok
}

// MarshalJSON re-encodes the envelope in its wire form.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.payload)+len(e.raw)+2)
	out[statusKey] = e.Status
	if e.Status == StatusError {
		if e.Error != nil {
			out[errorKey] = e.Error
		}
		return json.Marshal(out)
	}
	for name, v := range e.raw {
		out[name] = v
	}
	for f, v := range e.payload {
		out[string(f)] = v
	}
	return json.Marshal(out)
}

// Lookup returns a decoded payload field.
// ok is false when the field was absent or T does not match the registered type.
func Lookup[T any](e *Envelope, field Field) (v T, ok bool) {
	if e == nil {
		return v, false
	}
	got, present := e.payload[field]
	if !present {
		return v, false
	}
	v, ok = got.(T)
	return v, ok
}

func listOrEmpty[T any](e *Envelope, field Field) []T {
	v, _ := Lookup[[]T](e, field)
	if v == nil {
		return []T{}
	}
	return v
}

func (e *Envelope) Projects() []Project { return listOrEmpty[Project](e, FieldProjects) }
func (e *Envelope) Parts() []Part { return listOrEmpty[Part](e, FieldParts) }
func (e *Envelope) Sessions() []Session { return listOrEmpty[Session](e, FieldSessions) }
func (e *Envelope) GuildMembers() []GuildMember { return listOrEmpty[GuildMember](e, FieldGuildMembers) }
func (e *Envelope) MixtapeProjects() []MixtapeProject {
	return listOrEmpty[MixtapeProject](e, FieldMixtapeProjects)
}

func (e *Envelope) CreditsTable() CreditsTable {
	v, _ := Lookup[CreditsTable](e, FieldCreditsTable)
	if v == nil {
		return CreditsTable{}
	}
	return v
}

func (e *Envelope) Dataset() Dataset {
	v, _ := Lookup[Dataset](e, FieldDataset)
	if v == nil {
		return Dataset{}
	}
	return v
}

func (e *Envelope) Identity() Identity {
	v, _ := Lookup[Identity](e, FieldIdentity)
	return v
}

func (e *Envelope) OAuthRedirect() OAuthRedirect {
	v, _ := Lookup[OAuthRedirect](e, FieldOAuthRedirect)
	return v
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
