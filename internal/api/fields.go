package api

import "encoding/json"

// Field names a payload field of an ok envelope.
type Field string

const (
	FieldProjects        Field = "Projects"
	FieldParts           Field = "Parts"
	FieldSessions        Field = "Sessions"
	FieldDataset         Field = "Dataset"
	FieldGuildMembers    Field = "GuildMembers"
	FieldMixtapeProjects Field = "MixtapeProjects"
	FieldCreditsTable    Field = "CreditsTable"
	FieldIdentity        Field = "Identity"
	FieldOAuthRedirect   Field = "OAuthRedirect"
)

type decoder func(json.RawMessage) (any, error)

// decoders is the single place a payload field name is bound to its Go type.
// Fields not listed here are kept as raw JSON.
var decoders = map[Field]decoder{
	FieldProjects:        decodeAs[[]Project],
	FieldParts:           decodeAs[[]Part],
	FieldSessions:        decodeAs[[]Session],
	FieldDataset:         decodeAs[Dataset],
	FieldGuildMembers:    decodeAs[[]GuildMember],
	FieldMixtapeProjects: decodeAs[[]MixtapeProject],
	FieldCreditsTable:    decodeAs[CreditsTable],
	FieldIdentity:        decodeAs[Identity],
	FieldOAuthRedirect:   decodeAs[OAuthRedirect],
}

func decodeAs[T any](raw json.RawMessage) (any, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Registered reports whether the client knows how to decode the named field.
func Registered(name string) bool {
	_, ok := decoders[Field(name)]
	return ok
}
