package bingodto

// Fixture is one selectable match.
type Fixture struct {
	ID       int64  `json:"id"`
	Label    string `json:"label"`
	HomeName string `json:"home_name,omitempty"`
	AwayName string `json:"away_name,omitempty"`
}

type FixtureList struct {
	Date     string    `json:"date"`
	Timezone string    `json:"timezone"`
	Fixtures []Fixture `json:"fixtures"`
	Warning  string    `json:"warning,omitempty"`
}

type Roster struct {
	FixtureID int64    `json:"fixture_id"`
	Players   []string `json:"players"`
	Warning   string   `json:"warning,omitempty"`
}
