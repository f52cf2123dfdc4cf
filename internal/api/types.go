package api

import "time"

// =============================================================================
// ROLES
// =============================================================================

type Role string

const (
	RoleAnonymous     Role = "anonymous"
	RoleVVGOMember    Role = "vvgo-member"
	RoleVVGOTeams     Role = "vvgo-teams"
	RoleVVGOLeader    Role = "vvgo-leader"
	RoleVVGOUploader  Role = "vvgo-uploader"
	RoleVVGODeveloper Role = "vvgo-developer"
)

// =============================================================================
// PROJECTS & PARTS
// =============================================================================

type Project struct {
	Name                    string
	Title                   string
	Season                  string
	Hidden                  bool
	PartsReleased           bool
	PartsArchived           bool
	VideoReleased           bool
	Sources                 string
	Composers               string
	Arrangers               string
	Editors                 string
	Transcribers            string
	Preparers               string
	ClixBy                  string
	Reviewers               string
	Lyricists               string
	AddlContent             string
	ReferenceTrack          string
	ChoirPronunciationGuide string
	BannerLink              string
	YoutubeLink             string
	YoutubeEmbed            string
	SubmissionDeadline      string
	SubmissionLink          string
	Mixtape                 string
	ReleaseDate             string
}

type Part struct {
	Project            string
	PartName           string
	ScoreOrder         int
	SheetMusicFile     string
	ClickTrackFile     string
	ConductorVideo     string
	PronunciationGuide string
}

// =============================================================================
// SESSIONS & IDENTITY
// =============================================================================

// Session is a login session as listed by the admin session endpoints.
type Session struct {
	Key       string
	Kind      string
	Roles     []Role
	DiscordID string
	ExpiresAt time.Time
}

// SessionParams requests a new session.
// Expires is a lifetime in seconds.
type SessionParams struct {
	Kind    string
	Roles   []Role
	Expires int
}

// Identity is the caller as seen by the server.
// Key is only set on responses to a login request.
type Identity struct {
	Kind      string
	Roles     []Role
	DiscordID string
	Key       string `json:",omitempty"`
}

// HasRole reports whether the identity carries role.
func (x Identity) HasRole(role Role) bool {
	for _, r := range x.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// OAuthRedirect carries what the login page needs to send the user to discord.
type OAuthRedirect struct {
	DiscordURL string
	State      string
	Secret     string
}

// =============================================================================
// MIXTAPE
// =============================================================================

type MixtapeProject struct {
	Id       string
	Mixtape  string
	Name     string
	Title    string
	Blurb    string
	Channels []string
	Owners   []string
	Tags     []string
}

// =============================================================================
// GUILD
// =============================================================================

type GuildMember struct {
	User  DiscordUser
	Nick  string
	Roles []string
}

type DiscordUser struct {
	ID            string
	Username      string
	Discriminator string
	Avatar        string
}

// DisplayName is the member's nickname, falling back to the discord username.
func (m GuildMember) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.User.Username
}

// =============================================================================
// CREDITS & DATASETS
// =============================================================================

// CreditsTable groups credits by topic, then by team.
type CreditsTable []CreditsTopic

type CreditsTopic struct {
	Name string
	Rows []CreditsTeam
}

type CreditsTeam struct {
	Name string
	Rows []Credit
}

type Credit struct {
	Project       string
	Order         int
	MajorCategory string
	MinorCategory string
	Name          string
	BottomText    string
}

// Dataset is a table of string valued records, one map per row.
type Dataset []map[string]string
