package fixtures

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/devfulton/footy-bingo/internal/domain"
	"github.com/devfulton/footy-bingo/internal/fotfast"
	"github.com/devfulton/footy-bingo/internal/service/cache"
)

var ErrFixtureNotFound = errors.New("fixture not found")

// Client is the slice of the provider client the service consumes.
type Client interface {
	MatchesByDate(ctx context.Context, yyyymmdd string) (*fotfast.MatchesResponse, error)
	MatchDetails(ctx context.Context, matchID int64) (*fotfast.MatchDetails, error)
	Team(ctx context.Context, teamID int64) (*fotfast.TeamResponse, error)
}

type Config struct {
	FixtureTTL time.Duration
	RosterTTL  time.Duration
	MaxDays    int
}

// Service lists fixtures and rosters from the provider, caching each date and
// fixture in Redis and collapsing concurrent fetches of the same key.
type Service struct {
	client Client
	cache  *cache.CacheService
	cfg    Config
	group  singleflight.Group
	logger *zap.Logger
}

// Cache entries carry FetchedAt so an empty result is distinguishable from a
// cache miss, which leaves the entry zero-valued.
type fixturesEntry struct {
	FetchedAt time.Time        `json:"fetched_at"`
	Fixtures  []domain.Fixture `json:"fixtures"`
}

type fixtureEntry struct {
	FetchedAt time.Time      `json:"fetched_at"`
	Fixture   domain.Fixture `json:"fixture"`
}

type rosterEntry struct {
	FetchedAt time.Time `json:"fetched_at"`
	Names     []string  `json:"names"`
}

func NewService(client Client, cacheSvc *cache.CacheService, cfg Config, logger *zap.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("provider client is required")
	}
	if cacheSvc == nil {
		return nil, fmt.Errorf("cache service is required")
	}
	if cfg.FixtureTTL <= 0 {
		return nil, fmt.Errorf("fixture cache TTL must be greater than 0")
	}
	if cfg.RosterTTL <= 0 {
		return nil, fmt.Errorf("roster cache TTL must be greater than 0")
	}
	if cfg.MaxDays < 1 {
		cfg.MaxDays = 1
	}
	if cfg.MaxDays > 2 {
		cfg.MaxDays = 2
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		cache:  cacheSvc,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// ListFixtures returns the fixtures for day and the following days-1 dates.
// days is clamped to [1, MaxDays].
func (s *Service) ListFixtures(ctx context.Context, day time.Time, days int) ([]domain.Fixture, error) {
	if days < 1 {
		days = 1
	}
	if days > s.cfg.MaxDays {
		days = s.cfg.MaxDays
	}

	var all []domain.Fixture
	for i := 0; i < days; i++ {
		date := day.AddDate(0, 0, i).Format("20060102")
		list, err := s.fixturesForDate(ctx, date)
		if err != nil {
			return nil, err
		}
		all = append(all, list...)
	}
	return all, nil
}

func (s *Service) fixturesForDate(ctx context.Context, date string) ([]domain.Fixture, error) {
	key := fixturesKey(date)

	var entry fixturesEntry
	if err := s.cache.Get(ctx, key, &entry); err != nil {
		return nil, err
	}
	if !entry.FetchedAt.IsZero() {
		return append([]domain.Fixture(nil), entry.Fixtures...), nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		resp, err := s.client.MatchesByDate(ctx, date)
		if err != nil {
			return nil, err
		}
		fixtures := flattenMatches(resp)
		stored := fixturesEntry{FetchedAt: time.Now(), Fixtures: fixtures}
		if err := s.cache.Set(ctx, key, stored, s.cfg.FixtureTTL); err != nil {
			s.logger.Warn("failed to cache fixture list",
				zap.Error(err),
				zap.String("date", date),
			)
		}
		return fixtures, nil
	})
	if err != nil {
		return nil, err
	}
	fixtures := v.([]domain.Fixture)
	return append([]domain.Fixture(nil), fixtures...), nil
}

// Fixture resolves a single fixture by provider id, independent of the
// listed date window.
func (s *Service) Fixture(ctx context.Context, fixtureID int64) (*domain.Fixture, error) {
	key := fixtureKey(fixtureID)

	var entry fixtureEntry
	if err := s.cache.Get(ctx, key, &entry); err != nil {
		return nil, err
	}
	if !entry.FetchedAt.IsZero() {
		f := entry.Fixture
		return &f, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		details, err := s.client.MatchDetails(ctx, fixtureID)
		if err != nil {
			return nil, err
		}
		home := details.General.HomeTeam
		away := details.General.AwayTeam
		if home == nil && away == nil {
			return nil, ErrFixtureNotFound
		}
		f := domain.Fixture{ID: fixtureID}
		if home != nil {
			f.HomeID = home.ID.Int64()
			f.HomeName = home.Name
		}
		if away != nil {
			f.AwayID = away.ID.Int64()
			f.AwayName = away.Name
		}
		f.Label = teamLabel(f.HomeName) + " vs " + teamLabel(f.AwayName)
		stored := fixtureEntry{FetchedAt: time.Now(), Fixture: f}
		if err := s.cache.Set(ctx, key, stored, s.cfg.FixtureTTL); err != nil {
			s.logger.Warn("failed to cache fixture",
				zap.Error(err),
				zap.Int64("fixture_id", fixtureID),
			)
		}
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	f := v.(domain.Fixture)
	return &f, nil
}

// RosterNames returns the combined player names of both squads for a
// fixture, staff groups excluded, trimmed, de-duplicated and sorted.
func (s *Service) RosterNames(ctx context.Context, fixtureID int64) ([]string, error) {
	key := rosterKey(fixtureID)

	var entry rosterEntry
	if err := s.cache.Get(ctx, key, &entry); err != nil {
		return nil, err
	}
	if !entry.FetchedAt.IsZero() {
		return append([]string(nil), entry.Names...), nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		names, err := s.fetchRoster(ctx, fixtureID)
		if err != nil {
			return nil, err
		}
		stored := rosterEntry{FetchedAt: time.Now(), Names: names}
		if err := s.cache.Set(ctx, key, stored, s.cfg.RosterTTL); err != nil {
			s.logger.Warn("failed to cache roster",
				zap.Error(err),
				zap.Int64("fixture_id", fixtureID),
			)
		}
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	names := v.([]string)
	return append([]string(nil), names...), nil
}

func (s *Service) fetchRoster(ctx context.Context, fixtureID int64) ([]string, error) {
	details, err := s.client.MatchDetails(ctx, fixtureID)
	if err != nil {
		return nil, err
	}

	var teamIDs []int64
	if home := details.General.HomeTeam; home != nil && home.ID.Int64() != 0 {
		teamIDs = append(teamIDs, home.ID.Int64())
	}
	if away := details.General.AwayTeam; away != nil && away.ID.Int64() != 0 {
		teamIDs = append(teamIDs, away.ID.Int64())
	}

	seen := make(map[string]struct{})
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range teamIDs {
		id := id
		g.Go(func() error {
			team, err := s.client.Team(gctx, id)
			if err != nil {
				return fmt.Errorf("fetch squad %d: %w", id, err)
			}
			mu.Lock()
			for _, name := range playerNames(team) {
				seen[name] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// playerNames extracts player names from a squad response. Groups whose
// title mentions coaching staff hold no eligible subjects.
func playerNames(team *fotfast.TeamResponse) []string {
	if team == nil {
		return nil
	}
	var out []string
	for _, group := range team.Squad.Squad {
		title := strings.ToLower(group.Title)
		if strings.Contains(title, "coach") || strings.Contains(title, "manager") {
			continue
		}
		for _, member := range group.Members {
			name := strings.TrimSpace(member.Name)
			if name == "" {
				continue
			}
			out = append(out, name)
		}
	}
	return out
}

func flattenMatches(resp *fotfast.MatchesResponse) []domain.Fixture {
	var out []domain.Fixture
	if resp == nil {
		return out
	}
	for _, league := range resp.Leagues {
		for _, m := range league.Matches {
			if m.Home == nil || m.Away == nil {
				continue
			}
			out = append(out, domain.Fixture{
				ID:       m.ID.Int64(),
				Label:    teamLabel(m.Home.Name) + " vs " + teamLabel(m.Away.Name),
				HomeID:   m.Home.ID.Int64(),
				HomeName: m.Home.Name,
				AwayID:   m.Away.ID.Int64(),
				AwayName: m.Away.Name,
			})
		}
	}
	return out
}

func teamLabel(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Unknown"
	}
	return name
}

func fixturesKey(date string) string { return "bingo:fixtures:" + date }

func fixtureKey(id int64) string { return fmt.Sprintf("bingo:fixture:%d", id) }

func rosterKey(id int64) string { return fmt.Sprintf("bingo:rosters:%d", id) }
