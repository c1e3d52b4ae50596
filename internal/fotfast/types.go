package fotfast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexID decodes provider identifiers that arrive as JSON numbers or as
// numeric strings, depending on the endpoint.
type FlexID int64

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("parse id %q: %w", s, err)
		}
		*f = FlexID(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n)
	return nil
}

func (f FlexID) Int64() int64 { return int64(f) }

// MatchTeam is one side of a listed match.
type MatchTeam struct {
	ID   FlexID `json:"id"`
	Name string `json:"name"`
}

type Match struct {
	ID   FlexID     `json:"id"`
	Home *MatchTeam `json:"home"`
	Away *MatchTeam `json:"away"`
}

type League struct {
	Name    string  `json:"name"`
	Matches []Match `json:"matches"`
}

// MatchesResponse is the envelope of /api/matches. Matches are grouped by
// league; the grouping is flattened by callers.
type MatchesResponse struct {
	Leagues []League `json:"leagues"`
}

type GeneralTeam struct {
	ID   FlexID `json:"id"`
	Name string `json:"name"`
}

type MatchGeneral struct {
	HomeTeam *GeneralTeam `json:"homeTeam"`
	AwayTeam *GeneralTeam `json:"awayTeam"`
}

// MatchDetails is the envelope of /api/matchDetails. Only the general block
// is consumed; the provider sends far more.
type MatchDetails struct {
	General MatchGeneral `json:"general"`
}

type SquadMember struct {
	ID   FlexID `json:"id"`
	Name string `json:"name"`
}

// SquadGroup is one roster section (keeper, defense, coach, ...). Staff
// groups are identified by title, not by a dedicated flag.
type SquadGroup struct {
	Title   string        `json:"title"`
	Members []SquadMember `json:"members"`
}

type TeamSquad struct {
	Squad []SquadGroup `json:"squad"`
}

// TeamResponse is the envelope of /api/teams. The roster lives under a
// doubly nested squad key.
type TeamResponse struct {
	Squad TeamSquad `json:"squad"`
}
