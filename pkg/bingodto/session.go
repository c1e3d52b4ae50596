package bingodto

import "time"

// SessionState is the wire form of one bingo session. Marked is row-major
// over the 5x5 grid; index 12 is the free square.
type SessionState struct {
	SessionUUID  string    `json:"session_uuid"`
	FixtureID    int64     `json:"fixture_id"`
	FixtureLabel string    `json:"fixture_label"`
	HomeName     string    `json:"home_name"`
	AwayName     string    `json:"away_name"`
	Timezone     string    `json:"timezone"`
	Players      []string  `json:"players"`
	ManualRoster bool      `json:"manual_roster"`
	Choices      []string  `json:"choices"`
	Board        []string  `json:"board,omitempty"`
	Marked       []bool    `json:"marked,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EventCatalog lists the three builder vocabularies.
type EventCatalog struct {
	Player []string `json:"player"`
	Team   []string `json:"team"`
	Game   []string `json:"game"`
}
