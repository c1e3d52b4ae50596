package domain

// Fixture is one scheduled match as reported by the data provider.
// Label is what the user picks from; the ids drive roster lookups.
type Fixture struct {
	ID       int64
	Label    string
	HomeID   int64
	HomeName string
	AwayID   int64
	AwayName string
}
