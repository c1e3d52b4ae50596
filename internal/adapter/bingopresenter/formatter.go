package bingopresenter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devfulton/footy-bingo/internal/board"
	"github.com/devfulton/footy-bingo/internal/msgcat"
	svc "github.com/devfulton/footy-bingo/internal/service/bingo"
	"github.com/devfulton/footy-bingo/pkg/bingodto"
)

const (
	shareMarkedCell = "🟩"
	shareOpenCell   = "⬜"
	shareFreeCell   = "⭐"

	defaultCardTitle = "Football Bingo"
)

// Formatter renders bingo DTOs into shareable text blocks and maps misuse
// errors onto the user-facing copy in the message catalog.
type Formatter struct {
	messages *msgcat.Catalog
}

func NewFormatter(messages *msgcat.Catalog) *Formatter {
	return &Formatter{messages: messages}
}

// ShareGrid renders the board as an emoji grid for pasting into chats.
func (f *Formatter) ShareGrid(state *bingodto.SessionState) string {
	if state == nil || len(state.Marked) != board.Cells {
		return ""
	}

	var sb strings.Builder
	title := strings.TrimSpace(state.FixtureLabel)
	if title == "" {
		title = defaultCardTitle
	}
	sb.WriteString("⚽ ")
	sb.WriteString(title)
	sb.WriteString("\n")

	markedCount := 0
	for idx, isMarked := range state.Marked {
		switch {
		case idx == board.FreeIndex:
			sb.WriteString(shareFreeCell)
		case isMarked:
			sb.WriteString(shareMarkedCell)
			markedCount++
		default:
			sb.WriteString(shareOpenCell)
		}
		if (idx+1)%5 == 0 {
			sb.WriteString("\n")
		}
	}

	sb.WriteString(fmt.Sprintf("Marked: %d/%d", markedCount, board.MaxChoices))
	if board.CheckBingo(state.Marked) {
		sb.WriteString("\n")
		sb.WriteString(f.render("win.title", nil))
	}
	return sb.String()
}

// FixtureTable renders a fixture list as bullet lines for terminal output.
func (f *Formatter) FixtureTable(list bingodto.FixtureList) string {
	var sb strings.Builder
	sb.WriteString("⚽ Fixtures for ")
	sb.WriteString(list.Date)
	if tz := strings.TrimSpace(list.Timezone); tz != "" {
		sb.WriteString(" (")
		sb.WriteString(tz)
		sb.WriteString(")")
	}
	sb.WriteString("\n")

	if len(list.Fixtures) == 0 {
		sb.WriteString(f.render("fixtures.none_today", nil))
		return sb.String()
	}
	for _, fx := range list.Fixtures {
		sb.WriteString(fmt.Sprintf("• #%d %s\n", fx.ID, fx.Label))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// WinBanner returns the celebration copy shown when a line completes.
func (f *Formatter) WinBanner() (title, body string) {
	return f.render("win.title", nil), f.render("win.body", nil)
}

// Warning maps a rejected-input error to catalog copy. It reports false for
// errors that are not user misuse, which callers should surface as failures.
func (f *Formatter) Warning(err error, data any) (string, bool) {
	if err == nil {
		return "", false
	}
	switch {
	case errors.Is(err, board.ErrChoicesFull):
		return f.render("squares.full", nil), true
	case errors.Is(err, board.ErrDuplicateSquare):
		return f.render("squares.duplicate", data), true
	case errors.Is(err, board.ErrChoicesEmpty):
		return f.render("squares.empty_undo", nil), true
	case errors.Is(err, svc.ErrUnknownCategory):
		return f.render("squares.unknown_category", nil), true
	case errors.Is(err, svc.ErrUnknownEvent):
		return f.render("squares.unknown_event", data), true
	case errors.Is(err, svc.ErrUnknownSubject):
		return f.render("squares.unknown_subject", data), true
	case errors.Is(err, svc.ErrNoPlayers):
		return f.render("roster.manual_empty", nil), true
	case errors.Is(err, svc.ErrBoardNotGenerated):
		return f.render("board.not_generated", nil), true
	case errors.Is(err, svc.ErrBadCellIndex):
		return f.render("board.bad_cell", nil), true
	case errors.Is(err, svc.ErrFreeSquareFixed):
		return f.render("board.free_fixed", nil), true
	default:
		return "", false
	}
}

func (f *Formatter) render(key string, data any) string {
	if f == nil || f.messages == nil {
		return key
	}
	return f.messages.MustRender(key, data)
}
