package fixtures

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/devfulton/footy-bingo/internal/fotfast"
	"github.com/devfulton/footy-bingo/internal/service/cache"
)

type stubClient struct {
	mu           sync.Mutex
	matchesCalls int
	detailsCalls int
	teamCalls    int

	matches map[string]*fotfast.MatchesResponse
	details map[int64]*fotfast.MatchDetails
	teams   map[int64]*fotfast.TeamResponse
	err     error
}

func (c *stubClient) MatchesByDate(_ context.Context, date string) (*fotfast.MatchesResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matchesCalls++
	if c.err != nil {
		return nil, c.err
	}
	if resp, ok := c.matches[date]; ok {
		return resp, nil
	}
	return &fotfast.MatchesResponse{}, nil
}

func (c *stubClient) MatchDetails(_ context.Context, matchID int64) (*fotfast.MatchDetails, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detailsCalls++
	if c.err != nil {
		return nil, c.err
	}
	if d, ok := c.details[matchID]; ok {
		return d, nil
	}
	return &fotfast.MatchDetails{}, nil
}

func (c *stubClient) Team(_ context.Context, teamID int64) (*fotfast.TeamResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teamCalls++
	if c.err != nil {
		return nil, c.err
	}
	if team, ok := c.teams[teamID]; ok {
		return team, nil
	}
	return nil, errors.New("unknown team")
}

func newTestService(t *testing.T, client Client) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("parse miniredis port: %v", err)
	}
	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{Host: mr.Host(), Port: port}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewCacheService: %v", err)
	}
	t.Cleanup(func() { _ = cacheSvc.Close() })

	svc, err := NewService(client, cacheSvc, Config{
		FixtureTTL: time.Minute,
		RosterTTL:  time.Minute,
		MaxDays:    2,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func testDay() time.Time {
	return time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
}

func sampleMatches() *fotfast.MatchesResponse {
	return &fotfast.MatchesResponse{Leagues: []fotfast.League{
		{Name: "Premier League", Matches: []fotfast.Match{
			{ID: 1, Home: &fotfast.MatchTeam{ID: 10, Name: "Arsenal"}, Away: &fotfast.MatchTeam{ID: 11, Name: "Liverpool"}},
			{ID: 2, Home: &fotfast.MatchTeam{ID: 12}, Away: &fotfast.MatchTeam{ID: 13, Name: "Brentford"}},
			{ID: 3, Home: &fotfast.MatchTeam{ID: 14, Name: "Fulham"}},
		}},
		{Name: "La Liga", Matches: []fotfast.Match{
			{ID: 4, Home: &fotfast.MatchTeam{ID: 20, Name: "Barcelona"}, Away: &fotfast.MatchTeam{ID: 21, Name: "Sevilla"}},
		}},
	}}
}

func TestListFixturesFlattensAndLabels(t *testing.T) {
	client := &stubClient{matches: map[string]*fotfast.MatchesResponse{"20260826": sampleMatches()}}
	svc := newTestService(t, client)

	got, err := svc.ListFixtures(context.Background(), testDay(), 1)
	if err != nil {
		t.Fatalf("ListFixtures: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d fixtures, want 3 (match without away dropped)", len(got))
	}
	wantLabels := []string{"Arsenal vs Liverpool", "Unknown vs Brentford", "Barcelona vs Sevilla"}
	for i, want := range wantLabels {
		if got[i].Label != want {
			t.Errorf("fixture %d label = %q, want %q", i, got[i].Label, want)
		}
	}
	if got[0].HomeID != 10 || got[0].AwayID != 11 {
		t.Fatalf("fixture team ids = %d/%d, want 10/11", got[0].HomeID, got[0].AwayID)
	}
}

func TestListFixturesCachesPerDate(t *testing.T) {
	client := &stubClient{matches: map[string]*fotfast.MatchesResponse{"20260826": sampleMatches()}}
	svc := newTestService(t, client)
	ctx := context.Background()

	first, err := svc.ListFixtures(ctx, testDay(), 1)
	if err != nil {
		t.Fatalf("first ListFixtures: %v", err)
	}
	second, err := svc.ListFixtures(ctx, testDay(), 1)
	if err != nil {
		t.Fatalf("second ListFixtures: %v", err)
	}
	if client.matchesCalls != 1 {
		t.Fatalf("provider hit %d times, want 1", client.matchesCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestListFixturesCachesEmptyDate(t *testing.T) {
	client := &stubClient{}
	svc := newTestService(t, client)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		got, err := svc.ListFixtures(ctx, testDay(), 1)
		if err != nil {
			t.Fatalf("ListFixtures #%d: %v", i+1, err)
		}
		if len(got) != 0 {
			t.Fatalf("got %d fixtures, want 0", len(got))
		}
	}
	if client.matchesCalls != 1 {
		t.Fatalf("empty date fetched %d times, want 1", client.matchesCalls)
	}
}

func TestListFixturesClampsDays(t *testing.T) {
	client := &stubClient{matches: map[string]*fotfast.MatchesResponse{
		"20260826": sampleMatches(),
		"20260827": {Leagues: []fotfast.League{{Matches: []fotfast.Match{
			{ID: 9, Home: &fotfast.MatchTeam{ID: 30, Name: "Ajax"}, Away: &fotfast.MatchTeam{ID: 31, Name: "PSV"}},
		}}}},
	}}
	svc := newTestService(t, client)

	got, err := svc.ListFixtures(context.Background(), testDay(), 5)
	if err != nil {
		t.Fatalf("ListFixtures: %v", err)
	}
	if client.matchesCalls != 2 {
		t.Fatalf("provider hit %d times, want 2 (days clamped)", client.matchesCalls)
	}
	if len(got) != 4 {
		t.Fatalf("got %d fixtures, want 4 across two days", len(got))
	}

	client2 := &stubClient{matches: map[string]*fotfast.MatchesResponse{"20260826": sampleMatches()}}
	svc2 := newTestService(t, client2)
	if _, err := svc2.ListFixtures(context.Background(), testDay(), 0); err != nil {
		t.Fatalf("ListFixtures days=0: %v", err)
	}
	if client2.matchesCalls != 1 {
		t.Fatalf("days=0 hit provider %d times, want 1", client2.matchesCalls)
	}
}

func TestListFixturesPropagatesProviderError(t *testing.T) {
	client := &stubClient{err: errors.New("provider down")}
	svc := newTestService(t, client)

	if _, err := svc.ListFixtures(context.Background(), testDay(), 1); err == nil {
		t.Fatal("expected provider error")
	}
}

func TestRosterNamesFiltersStaffTrimsAndSorts(t *testing.T) {
	client := &stubClient{
		details: map[int64]*fotfast.MatchDetails{
			1: {General: fotfast.MatchGeneral{
				HomeTeam: &fotfast.GeneralTeam{ID: 10, Name: "Arsenal"},
				AwayTeam: &fotfast.GeneralTeam{ID: 11, Name: "Liverpool"},
			}},
		},
		teams: map[int64]*fotfast.TeamResponse{
			10: {Squad: fotfast.TeamSquad{Squad: []fotfast.SquadGroup{
				{Title: "Coach", Members: []fotfast.SquadMember{{Name: "Mikel Arteta"}}},
				{Title: "Keepers", Members: []fotfast.SquadMember{{Name: " David Raya "}, {Name: ""}}},
				{Title: "Midfielders", Members: []fotfast.SquadMember{{Name: "Declan Rice"}}},
			}}},
			11: {Squad: fotfast.TeamSquad{Squad: []fotfast.SquadGroup{
				{Title: "Team Manager", Members: []fotfast.SquadMember{{Name: "Arne Slot"}}},
				{Title: "Attackers", Members: []fotfast.SquadMember{{Name: "Mohamed Salah"}, {Name: "Declan Rice"}}},
			}}},
		},
	}
	svc := newTestService(t, client)

	got, err := svc.RosterNames(context.Background(), 1)
	if err != nil {
		t.Fatalf("RosterNames: %v", err)
	}
	want := []string{"David Raya", "Declan Rice", "Mohamed Salah"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRosterNamesSkipsMissingTeamID(t *testing.T) {
	client := &stubClient{
		details: map[int64]*fotfast.MatchDetails{
			1: {General: fotfast.MatchGeneral{
				HomeTeam: &fotfast.GeneralTeam{ID: 10, Name: "Arsenal"},
			}},
		},
		teams: map[int64]*fotfast.TeamResponse{
			10: {Squad: fotfast.TeamSquad{Squad: []fotfast.SquadGroup{
				{Title: "Keepers", Members: []fotfast.SquadMember{{Name: "David Raya"}}},
			}}},
		},
	}
	svc := newTestService(t, client)

	got, err := svc.RosterNames(context.Background(), 1)
	if err != nil {
		t.Fatalf("RosterNames: %v", err)
	}
	if len(got) != 1 || got[0] != "David Raya" {
		t.Fatalf("got %v, want only the home squad", got)
	}
	if client.teamCalls != 1 {
		t.Fatalf("team fetched %d times, want 1", client.teamCalls)
	}
}

func TestRosterNamesCaches(t *testing.T) {
	client := &stubClient{
		details: map[int64]*fotfast.MatchDetails{
			1: {General: fotfast.MatchGeneral{
				HomeTeam: &fotfast.GeneralTeam{ID: 10, Name: "Arsenal"},
			}},
		},
		teams: map[int64]*fotfast.TeamResponse{
			10: {Squad: fotfast.TeamSquad{Squad: []fotfast.SquadGroup{
				{Title: "Keepers", Members: []fotfast.SquadMember{{Name: "David Raya"}}},
			}}},
		},
	}
	svc := newTestService(t, client)
	ctx := context.Background()

	if _, err := svc.RosterNames(ctx, 1); err != nil {
		t.Fatalf("first RosterNames: %v", err)
	}
	if _, err := svc.RosterNames(ctx, 1); err != nil {
		t.Fatalf("second RosterNames: %v", err)
	}
	if client.detailsCalls != 1 || client.teamCalls != 1 {
		t.Fatalf("provider hit details=%d teams=%d, want 1/1", client.detailsCalls, client.teamCalls)
	}
}

func TestRosterNamesPropagatesSquadError(t *testing.T) {
	client := &stubClient{
		details: map[int64]*fotfast.MatchDetails{
			1: {General: fotfast.MatchGeneral{
				HomeTeam: &fotfast.GeneralTeam{ID: 99, Name: "Ghost FC"},
			}},
		},
	}
	svc := newTestService(t, client)

	if _, err := svc.RosterNames(context.Background(), 1); err == nil {
		t.Fatal("expected error when squad fetch fails")
	}
}

func TestFixtureResolvesByID(t *testing.T) {
	client := &stubClient{
		details: map[int64]*fotfast.MatchDetails{
			7: {General: fotfast.MatchGeneral{
				HomeTeam: &fotfast.GeneralTeam{ID: 10, Name: "Arsenal"},
				AwayTeam: &fotfast.GeneralTeam{ID: 11},
			}},
		},
	}
	svc := newTestService(t, client)
	ctx := context.Background()

	f, err := svc.Fixture(ctx, 7)
	if err != nil {
		t.Fatalf("Fixture: %v", err)
	}
	if f.Label != "Arsenal vs Unknown" {
		t.Fatalf("label = %q, want %q", f.Label, "Arsenal vs Unknown")
	}
	if f.ID != 7 || f.HomeID != 10 {
		t.Fatalf("resolved fixture = %+v", f)
	}

	if _, err := svc.Fixture(ctx, 7); err != nil {
		t.Fatalf("cached Fixture: %v", err)
	}
	if client.detailsCalls != 1 {
		t.Fatalf("details fetched %d times, want 1", client.detailsCalls)
	}
}

func TestFixtureNotFound(t *testing.T) {
	client := &stubClient{details: map[int64]*fotfast.MatchDetails{}}
	svc := newTestService(t, client)

	_, err := svc.Fixture(context.Background(), 404)
	if !errors.Is(err, ErrFixtureNotFound) {
		t.Fatalf("got %v, want ErrFixtureNotFound", err)
	}
}
