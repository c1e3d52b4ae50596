package bingopresenter

import (
	"github.com/devfulton/footy-bingo/internal/domain"
	"github.com/devfulton/footy-bingo/internal/eventcat"
	svc "github.com/devfulton/footy-bingo/internal/service/bingo"
	"github.com/devfulton/footy-bingo/pkg/bingodto"
)

func ToDTOState(s *svc.SessionState) *bingodto.SessionState {
	if s == nil {
		return nil
	}
	return &bingodto.SessionState{
		SessionUUID:  s.SessionUUID,
		FixtureID:    s.FixtureID,
		FixtureLabel: s.FixtureLabel,
		HomeName:     s.HomeName,
		AwayName:     s.AwayName,
		Timezone:     s.Timezone,
		Players:      append([]string(nil), s.Players...),
		ManualRoster: s.ManualRoster,
		Choices:      append([]string(nil), s.Choices...),
		Board:        append([]string(nil), s.Board...),
		Marked:       append([]bool(nil), s.Marked...),
		StartedAt:    s.StartedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func ToDTOFixture(f *domain.Fixture) bingodto.Fixture {
	if f == nil {
		return bingodto.Fixture{}
	}
	return bingodto.Fixture{
		ID:       f.ID,
		Label:    f.Label,
		HomeName: f.HomeName,
		AwayName: f.AwayName,
	}
}

func ToDTOFixtureList(fixtures []domain.Fixture, date, tz string) bingodto.FixtureList {
	list := bingodto.FixtureList{
		Date:     date,
		Timezone: tz,
		Fixtures: make([]bingodto.Fixture, 0, len(fixtures)),
	}
	for i := range fixtures {
		list.Fixtures = append(list.Fixtures, ToDTOFixture(&fixtures[i]))
	}
	return list
}

func ToDTORoster(fixtureID int64, players []string) bingodto.Roster {
	return bingodto.Roster{
		FixtureID: fixtureID,
		Players:   append([]string(nil), players...),
	}
}

func ToDTOEvents(c *eventcat.Catalog) bingodto.EventCatalog {
	if c == nil {
		return bingodto.EventCatalog{}
	}
	return bingodto.EventCatalog{
		Player: c.Player(),
		Team:   c.Team(),
		Game:   c.Game(),
	}
}
