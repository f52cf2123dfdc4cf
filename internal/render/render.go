// Package render writes api payloads for people (tables) or programs (JSON).
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/mattn/go-isatty"
	"github.com/virtual-vgo/portal/internal/api"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

type Renderer struct {
	w      io.Writer
	format Format
	color  bool
}

func New(w io.Writer, format Format, color bool) (*Renderer, error) {
	switch format {
	case FormatJSON, FormatTable:
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	return &Renderer{w: w, format: format, color: color}, nil
}

// ShouldColor reports whether output to f should be coloured.
// NO_COLOR (https://no-color.org) disables colour everywhere.
func ShouldColor(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// JSON writes v as indented JSON regardless of the renderer's format.
func (r *Renderer) JSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	data = append(data, '\n')

	if !r.color {
		_, err := r.w.Write(data)
		return err
	}
	return quick.Highlight(r.w, string(data), "json", highlightFormatter, highlightStyle)
}

// Render writes v as a table when the format is table and there is a table layout for v's type.
// Everything else is written as JSON.
func (r *Renderer) Render(v any) error {
	if r.format == FormatJSON {
		return r.JSON(v)
	}

	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)

	// full case mapping, so "ß" becomes "SS"
	upper := cases.Upper(language.Und)

	switch v := v.(type) {
	case []api.Project:
		row(tw, "NAME", "TITLE", "SEASON", "STATUS", "DEADLINE")
		for _, p := range v {
			row(tw, p.Name, p.Title, p.Season, projectStatus(p), p.SubmissionDeadline)
		}

	case []api.Part:
		row(tw, "PROJECT", "PART", "ORDER", "SHEET MUSIC", "CLICK TRACK")
		for _, p := range v {
			row(tw, p.Project, p.PartName, fmt.Sprint(p.ScoreOrder), p.SheetMusicFile, p.ClickTrackFile)
		}

	case []api.Session:
		row(tw, "KEY", "KIND", "ROLES", "DISCORD ID", "EXPIRES")
		for _, s := range v {
			row(tw, s.Key, s.Kind, joinRoles(s.Roles), s.DiscordID, formatTime(s.ExpiresAt))
		}

	case api.Identity:
		row(tw, "KIND", "ROLES", "DISCORD ID")
		row(tw, v.Kind, joinRoles(v.Roles), v.DiscordID)

	case []api.MixtapeProject:
		row(tw, "MIXTAPE", "NAME", "TITLE", "OWNERS", "TAGS")
		for _, p := range v {
			row(tw, p.Mixtape, p.Name, p.Title, strings.Join(p.Owners, ","), strings.Join(p.Tags, ","))
		}

	case []api.GuildMember:
		row(tw, "ID", "NAME", "USERNAME", "ROLES")
		for _, m := range v {
			row(tw, m.User.ID, m.DisplayName(), m.User.Username, fmt.Sprint(len(m.Roles)))
		}

	case api.CreditsTable:
		for _, topic := range v {
			row(tw, upper.String(topic.Name))
			for _, team := range topic.Rows {
				for _, credit := range team.Rows {
					row(tw, "", team.Name, credit.Name, credit.BottomText)
				}
			}
		}

	case api.Dataset:
		columns := datasetColumns(v)
		if len(columns) == 0 {
			break
		}
		header := make([]string, len(columns))
		for i, c := range columns {
			header[i] = upper.String(c)
		}
		row(tw, header...)
		for _, record := range v {
			cells := make([]string, len(columns))
			for i, c := range columns {
				cells[i] = record[c]
			}
			row(tw, cells...)
		}

	default:
		return r.JSON(v)
	}

	return tw.Flush()
}

func row(w io.Writer, cells ...string) {
	fmt.Fprintln(w, strings.Join(cells, "\t"))
}

func projectStatus(p api.Project) string {
	switch {
	case p.Hidden:
		return "hidden"
	case p.VideoReleased:
		return "released"
	case p.PartsArchived:
		return "archived"
	case p.PartsReleased:
		return "open"
	default:
		return "upcoming"
	}
}

func joinRoles(roles []api.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ",")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

// datasetColumns is the sorted union of keys over all records
func datasetColumns(d api.Dataset) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, record := range d {
		for k := range record {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)
	return columns
}
