package bingodto

type StartSessionRequest struct {
	FixtureID int64  `json:"fixture_id"`
	Timezone  string `json:"timezone,omitempty"`
}

type SetPlayersRequest struct {
	Players string `json:"players"`
}

type AddSquareRequest struct {
	Category string `json:"category"`
	Subject  string `json:"subject"`
	Event    string `json:"event"`
}

type ToggleSquareRequest struct {
	Index int `json:"index"`
}

// SessionResponse wraps the post-operation state. Warning carries a
// user-facing notice for rejected input; the state is then unchanged.
type SessionResponse struct {
	State   *SessionState `json:"state,omitempty"`
	Warning string        `json:"warning,omitempty"`
}

type SquareResponse struct {
	State   *SessionState `json:"state,omitempty"`
	Label   string        `json:"label,omitempty"`
	Warning string        `json:"warning,omitempty"`
}

type ToggleResponse struct {
	State   *SessionState `json:"state,omitempty"`
	Win     bool          `json:"win"`
	Warning string        `json:"warning,omitempty"`
}

type ShareResponse struct {
	Text    string `json:"text"`
	Warning string `json:"warning,omitempty"`
}
