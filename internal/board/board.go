package board

import (
	"errors"
	"math/rand"
	"time"
)

const (
	// Cells is the full grid size; MaxChoices is the user-buildable part.
	Cells      = 25
	MaxChoices = 24
	// FreeIndex is the fixed center cell (row 2, col 2, row-major).
	FreeIndex = 12

	FreeSquareLabel  = "⭐FREE SQUARE⭐"
	PlaceholderLabel = "Any unlisted event"
)

var (
	ErrChoicesFull     = errors.New("choice list already has 24 squares")
	ErrDuplicateSquare = errors.New("square is already on the list")
	ErrChoicesEmpty    = errors.New("no squares to undo")
)

// ChoiceList is the ordered, deduplicated list of user-picked square labels.
// Order is insertion order; duplicates are matched case-sensitively.
type ChoiceList struct {
	labels []string
}

// NewChoiceList restores a list from previously stored labels.
func NewChoiceList(labels []string) *ChoiceList {
	c := &ChoiceList{labels: make([]string, 0, MaxChoices)}
	for _, label := range labels {
		if len(c.labels) >= MaxChoices {
			break
		}
		if c.contains(label) {
			continue
		}
		c.labels = append(c.labels, label)
	}
	return c
}

// Add appends label unless the list is full or already holds it.
// The list is never mutated on rejection.
func (c *ChoiceList) Add(label string) error {
	if len(c.labels) >= MaxChoices {
		return ErrChoicesFull
	}
	if c.contains(label) {
		return ErrDuplicateSquare
	}
	c.labels = append(c.labels, label)
	return nil
}

// Undo removes and returns the last-appended label.
func (c *ChoiceList) Undo() (string, error) {
	if len(c.labels) == 0 {
		return "", ErrChoicesEmpty
	}
	last := c.labels[len(c.labels)-1]
	c.labels = c.labels[:len(c.labels)-1]
	return last, nil
}

// Labels returns a copy of the current labels in insertion order.
func (c *ChoiceList) Labels() []string {
	return append([]string(nil), c.labels...)
}

func (c *ChoiceList) Len() int { return len(c.labels) }

func (c *ChoiceList) contains(label string) bool {
	for _, l := range c.labels {
		if l == label {
			return true
		}
	}
	return false
}

// BuildPool returns the full auto-fill cross-product: every player with every
// player event, each team with every team event, and the fixture label with
// every game event.
func BuildPool(players, teams []string, fixtureLabel string, playerEvents, teamEvents, gameEvents []string) []string {
	pool := make([]string, 0, len(players)*len(playerEvents)+len(teams)*len(teamEvents)+len(gameEvents))
	for _, p := range players {
		for _, ev := range playerEvents {
			pool = append(pool, p+" "+ev)
		}
	}
	for _, t := range teams {
		for _, ev := range teamEvents {
			pool = append(pool, t+" "+ev)
		}
	}
	if fixtureLabel != "" {
		for _, ev := range gameEvents {
			pool = append(pool, fixtureLabel+" "+ev)
		}
	}
	return pool
}

// Board is a generated 5x5 grid with its per-cell marked state.
type Board struct {
	Cells  []string
	Marked []bool
}

// Generate builds a complete 25-cell board from the user's choices and the
// auto-fill pool. Choices are copied, never mutated. The pool is shuffled and
// drained to pad the list to 24, skipping labels already on the board; the
// placeholder fills whatever the pool cannot. The free-square sentinel always
// lands at FreeIndex and starts marked. Total for any input.
func Generate(choices, pool []string, r *rand.Rand) *Board {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	cells := make([]string, 0, Cells)
	cells = append(cells, choices...)
	if len(cells) > MaxChoices {
		cells = cells[:MaxChoices]
	}

	shuffled := append([]string(nil), pool...)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	present := make(map[string]struct{}, Cells)
	for _, label := range cells {
		present[label] = struct{}{}
	}
	for _, label := range shuffled {
		if len(cells) >= MaxChoices {
			break
		}
		if _, ok := present[label]; ok {
			continue
		}
		present[label] = struct{}{}
		cells = append(cells, label)
	}
	for len(cells) < MaxChoices {
		cells = append(cells, PlaceholderLabel)
	}

	r.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	cells = append(cells, "")
	copy(cells[FreeIndex+1:], cells[FreeIndex:])
	cells[FreeIndex] = FreeSquareLabel

	marked := make([]bool, Cells)
	marked[FreeIndex] = true
	return &Board{Cells: cells, Marked: marked}
}

// CheckBingo reports whether any of the 12 winning lines (5 rows, 5 columns,
// 2 diagonals) is fully marked. Inputs that are not exactly 25 cells long
// never win.
func CheckBingo(marked []bool) bool {
	if len(marked) != Cells {
		return false
	}

	for r := 0; r < 5; r++ {
		full := true
		for c := 0; c < 5; c++ {
			if !marked[r*5+c] {
				full = false
				break
			}
		}
		if full {
			return true
		}
	}

	for c := 0; c < 5; c++ {
		full := true
		for r := 0; r < 5; r++ {
			if !marked[r*5+c] {
				full = false
				break
			}
		}
		if full {
			return true
		}
	}

	diag := true
	for i := 0; i < 5; i++ {
		if !marked[i*5+i] {
			diag = false
			break
		}
	}
	if diag {
		return true
	}

	anti := true
	for i := 0; i < 5; i++ {
		if !marked[i*5+4-i] {
			anti = false
			break
		}
	}
	return anti
}
