package bingo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devfulton/footy-bingo/internal/board"
	"github.com/devfulton/footy-bingo/internal/domain"
	"github.com/devfulton/footy-bingo/internal/eventcat"
	"github.com/devfulton/footy-bingo/internal/service/cache"
	"github.com/devfulton/footy-bingo/internal/util"
)

var (
	ErrSessionNotFound   = errors.New("bingo session not found")
	ErrFixtureRequired   = errors.New("fixture id is required")
	ErrBadTimezone       = errors.New("unknown timezone")
	ErrNoPlayers         = errors.New("no player names provided")
	ErrUnknownCategory   = errors.New("unknown square category")
	ErrUnknownEvent      = errors.New("unknown event for category")
	ErrUnknownSubject    = errors.New("subject not eligible for category")
	ErrBoardNotGenerated = errors.New("bingo board not generated")
	ErrBadCellIndex      = errors.New("cell index out of range")
	ErrFreeSquareFixed   = errors.New("free square cannot be toggled")
)

// FixtureSource resolves fixtures and rosters. Satisfied by fixtures.Service.
type FixtureSource interface {
	Fixture(ctx context.Context, fixtureID int64) (*domain.Fixture, error)
	RosterNames(ctx context.Context, fixtureID int64) ([]string, error)
}

// CardRenderer draws a board snapshot as a PNG.
type CardRenderer interface {
	RenderPNG(ctx context.Context, cells []string, marked []bool, title string) ([]byte, error)
}

type SessionMeta struct {
	SessionID string
}

type Config struct {
	SessionTTL      time.Duration
	DefaultTimezone string
}

type Service struct {
	cache    *cache.CacheService
	fixtures FixtureSource
	events   *eventcat.Catalog
	renderer CardRenderer
	cfg      Config
	logger   *zap.Logger

	randMu sync.Mutex
	rand   *rand.Rand
}

type sessionPayload struct {
	SessionUUID  string    `json:"session_uuid"`
	FixtureID    int64     `json:"fixture_id"`
	FixtureLabel string    `json:"fixture_label"`
	HomeName     string    `json:"home_name"`
	AwayName     string    `json:"away_name"`
	Timezone     string    `json:"timezone"`
	Players      []string  `json:"players"`
	ManualRoster bool      `json:"manual_roster,omitempty"`
	Choices      []string  `json:"choices"`
	Board        []string  `json:"board,omitempty"`
	Marked       []bool    `json:"marked,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionState is the full readable state of one session.
type SessionState struct {
	SessionUUID  string
	FixtureID    int64
	FixtureLabel string
	HomeName     string
	AwayName     string
	Timezone     string
	Players      []string
	ManualRoster bool
	Choices      []string
	Board        []string
	Marked       []bool
	StartedAt    time.Time
	UpdatedAt    time.Time
}

// SquareResult reports a choice-list mutation together with the label that
// was added or removed.
type SquareResult struct {
	State *SessionState
	Label string
}

// ToggleResult carries the post-toggle state. Win holds for this toggle
// only; it is never persisted.
type ToggleResult struct {
	State *SessionState
	Win   bool
}

func NewService(cacheSvc *cache.CacheService, fixtureSrc FixtureSource, events *eventcat.Catalog, renderer CardRenderer, cfg Config, logger *zap.Logger) (*Service, error) {
	if cacheSvc == nil {
		return nil, fmt.Errorf("cache service is required")
	}
	if fixtureSrc == nil {
		return nil, fmt.Errorf("fixture source is required")
	}
	if events == nil {
		return nil, fmt.Errorf("event catalog is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("card renderer is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("session TTL must be greater than 0")
	}
	tz := strings.TrimSpace(cfg.DefaultTimezone)
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("default timezone validation failed: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		cache:    cacheSvc,
		fixtures: fixtureSrc,
		events:   events,
		renderer: renderer,
		cfg: Config{
			SessionTTL:      cfg.SessionTTL,
			DefaultTimezone: tz,
		},
		logger: logger,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// StartSession binds the session to a fixture and fetches its roster. An
// existing session under the same id is replaced. A roster fetch failure is
// not fatal; the session starts flagged for manual player entry.
func (s *Service) StartSession(ctx context.Context, meta SessionMeta, fixtureID int64, tz string) (*SessionState, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if fixtureID <= 0 {
		return nil, ErrFixtureRequired
	}

	tz = strings.TrimSpace(tz)
	if tz == "" {
		tz = s.cfg.DefaultTimezone
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, ErrBadTimezone
	}

	fixture, err := s.fixtures.Fixture(ctx, fixtureID)
	if err != nil {
		return nil, err
	}

	roster, err := s.fixtures.RosterNames(ctx, fixtureID)
	if err != nil {
		s.logger.Warn("roster fetch failed, falling back to manual entry",
			zap.Error(err),
			zap.Int64("fixture_id", fixtureID),
		)
		roster = nil
	}

	now := time.Now()
	payload := &sessionPayload{
		SessionUUID:  uuid.NewString(),
		FixtureID:    fixture.ID,
		FixtureLabel: fixture.Label,
		HomeName:     fixture.HomeName,
		AwayName:     fixture.AwayName,
		Timezone:     tz,
		Players:      roster,
		ManualRoster: len(roster) == 0,
		Choices:      []string{},
		StartedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.saveSession(ctx, meta.SessionID, payload); err != nil {
		return nil, err
	}
	return stateFromPayload(payload), nil
}

// SetPlayers replaces the session roster with a manual comma-separated list.
func (s *Service) SetPlayers(ctx context.Context, meta SessionMeta, raw string) (*SessionState, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}

	payload, err := s.loadSession(ctx, meta.SessionID)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrSessionNotFound
	}

	names := util.SplitNames(raw)
	if len(names) == 0 {
		return nil, ErrNoPlayers
	}

	payload.Players = names
	payload.ManualRoster = true

	if err := s.saveSession(ctx, meta.SessionID, payload); err != nil {
		return nil, err
	}
	return stateFromPayload(payload), nil
}

// AddSquare validates a builder submission and appends the composed label to
// the choice list. The board is untouched until the next GenerateBoard.
func (s *Service) AddSquare(ctx context.Context, meta SessionMeta, category, subject, event string) (*SquareResult, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}

	payload, err := s.loadSession(ctx, meta.SessionID)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrSessionNotFound
	}

	cat := strings.ToLower(strings.TrimSpace(category))
	subject = strings.TrimSpace(subject)
	event = strings.TrimSpace(event)

	if _, ok := s.events.Events(cat); !ok {
		return nil, ErrUnknownCategory
	}
	if !s.events.Has(cat, event) {
		return nil, ErrUnknownEvent
	}
	if err := validateSubject(payload, cat, subject); err != nil {
		return nil, err
	}

	label := subject + " " + event

	list := board.NewChoiceList(payload.Choices)
	if err := list.Add(label); err != nil {
		return nil, err
	}
	payload.Choices = list.Labels()

	if err := s.saveSession(ctx, meta.SessionID, payload); err != nil {
		return nil, err
	}
	return &SquareResult{State: stateFromPayload(payload), Label: label}, nil
}

// UndoSquare removes the most recently added square and returns its label.
func (s *Service) UndoSquare(ctx context.Context, meta SessionMeta) (*SquareResult, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}

	payload, err := s.loadSession(ctx, meta.SessionID)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrSessionNotFound
	}

	list := board.NewChoiceList(payload.Choices)
	label, err := list.Undo()
	if err != nil {
		return nil, err
	}
	payload.Choices = list.Labels()

	if err := s.saveSession(ctx, meta.SessionID, payload); err != nil {
		return nil, err
	}
	return &SquareResult{State: stateFromPayload(payload), Label: label}, nil
}

// GenerateBoard builds the auto-fill pool and replaces the board and marks.
// Works for any number of choices, including zero.
func (s *Service) GenerateBoard(ctx context.Context, meta SessionMeta) (*SessionState, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}

	payload, err := s.loadSession(ctx, meta.SessionID)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrSessionNotFound
	}

	var teams []string
	if payload.HomeName != "" {
		teams = append(teams, payload.HomeName)
	}
	if payload.AwayName != "" {
		teams = append(teams, payload.AwayName)
	}

	pool := board.BuildPool(payload.Players, teams, payload.FixtureLabel,
		s.events.Player(), s.events.Team(), s.events.Game())
	generated := board.Generate(payload.Choices, pool, s.random())

	payload.Board = generated.Cells
	payload.Marked = generated.Marked

	if err := s.saveSession(ctx, meta.SessionID, payload); err != nil {
		return nil, err
	}
	return stateFromPayload(payload), nil
}

// ToggleSquare flips one cell and checks the 12 winning lines. The free
// square stays marked for the whole game.
func (s *Service) ToggleSquare(ctx context.Context, meta SessionMeta, idx int) (*ToggleResult, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}

	payload, err := s.loadSession(ctx, meta.SessionID)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrSessionNotFound
	}
	if len(payload.Board) != board.Cells || len(payload.Marked) != board.Cells {
		return nil, ErrBoardNotGenerated
	}
	if idx < 0 || idx >= board.Cells {
		return nil, ErrBadCellIndex
	}
	if idx == board.FreeIndex {
		return nil, ErrFreeSquareFixed
	}

	payload.Marked[idx] = !payload.Marked[idx]
	win := board.CheckBingo(payload.Marked)

	if err := s.saveSession(ctx, meta.SessionID, payload); err != nil {
		return nil, err
	}
	return &ToggleResult{State: stateFromPayload(payload), Win: win}, nil
}

func (s *Service) Status(ctx context.Context, meta SessionMeta) (*SessionState, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}

	payload, err := s.loadSession(ctx, meta.SessionID)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrSessionNotFound
	}
	return stateFromPayload(payload), nil
}

func (s *Service) ClearSession(ctx context.Context, meta SessionMeta) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	return s.cache.Del(ctx, s.sessionKey(meta.SessionID))
}

// RenderCard draws the current board as a shareable PNG.
func (s *Service) RenderCard(ctx context.Context, meta SessionMeta) ([]byte, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}

	payload, err := s.loadSession(ctx, meta.SessionID)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrSessionNotFound
	}
	if len(payload.Board) != board.Cells || len(payload.Marked) != board.Cells {
		return nil, ErrBoardNotGenerated
	}
	return s.renderer.RenderPNG(ctx, payload.Board, payload.Marked, payload.FixtureLabel)
}

func validateSubject(payload *sessionPayload, category, subject string) error {
	if subject == "" {
		return ErrUnknownSubject
	}
	switch category {
	case eventcat.CategoryPlayer:
		for _, p := range payload.Players {
			if p == subject {
				return nil
			}
		}
		return ErrUnknownSubject
	case eventcat.CategoryTeam:
		if subject == payload.HomeName || subject == payload.AwayName {
			return nil
		}
		return ErrUnknownSubject
	case eventcat.CategoryGame:
		if subject == payload.FixtureLabel {
			return nil
		}
		return ErrUnknownSubject
	default:
		return ErrUnknownCategory
	}
}

func (s *Service) ensureReady() error {
	switch {
	case s.cache == nil:
		return fmt.Errorf("cache service not configured")
	case s.fixtures == nil:
		return fmt.Errorf("fixture source not configured")
	case s.events == nil:
		return fmt.Errorf("event catalog not configured")
	case s.renderer == nil:
		return fmt.Errorf("card renderer not configured")
	default:
		return nil
	}
}

func (s *Service) sessionKey(sessionID string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(sessionID))))
	return "bingo:sessions:" + hex.EncodeToString(hash[:])
}

func (s *Service) loadSession(ctx context.Context, sessionID string) (*sessionPayload, error) {
	payload := &sessionPayload{}
	if err := s.cache.Get(ctx, s.sessionKey(sessionID), payload); err != nil {
		return nil, err
	}
	if payload.SessionUUID == "" {
		return nil, nil
	}
	return payload, nil
}

func (s *Service) saveSession(ctx context.Context, sessionID string, payload *sessionPayload) error {
	if payload == nil {
		return fmt.Errorf("cannot save nil bingo session payload")
	}
	payload.UpdatedAt = time.Now()
	return s.cache.Set(ctx, s.sessionKey(sessionID), payload, s.cfg.SessionTTL)
}

func (s *Service) random() *rand.Rand {
	s.randMu.Lock()
	seed := s.rand.Int63()
	s.randMu.Unlock()
	return rand.New(rand.NewSource(seed))
}

func (s *Service) SetRandomSeed(seed int64) {
	s.randMu.Lock()
	s.rand = rand.New(rand.NewSource(seed))
	s.randMu.Unlock()
}

func stateFromPayload(payload *sessionPayload) *SessionState {
	return &SessionState{
		SessionUUID:  payload.SessionUUID,
		FixtureID:    payload.FixtureID,
		FixtureLabel: payload.FixtureLabel,
		HomeName:     payload.HomeName,
		AwayName:     payload.AwayName,
		Timezone:     payload.Timezone,
		Players:      append([]string(nil), payload.Players...),
		ManualRoster: payload.ManualRoster,
		Choices:      append([]string(nil), payload.Choices...),
		Board:        append([]string(nil), payload.Board...),
		Marked:       append([]bool(nil), payload.Marked...),
		StartedAt:    payload.StartedAt,
		UpdatedAt:    payload.UpdatedAt,
	}
}
