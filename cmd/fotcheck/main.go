package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/devfulton/footy-bingo/internal/adapter/bingopresenter"
	"github.com/devfulton/footy-bingo/internal/fotfast"
	"github.com/devfulton/footy-bingo/internal/msgcat"
	"github.com/devfulton/footy-bingo/pkg/bingodto"
)

// fotcheck probes the fixture provider without needing Redis or the web
// server: it lists today's matches and optionally one team's squad size.
func main() {
	baseURL := os.Getenv("FOT_BASE_URL")
	if baseURL == "" {
		log.Fatal("FOT_BASE_URL is required")
	}

	tz := os.Getenv("DEFAULT_TZ")
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Fatalf("bad DEFAULT_TZ %q: %v", tz, err)
	}

	client := fotfast.NewClient(baseURL, fotfast.WithTimeout(8*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	now := time.Now().In(loc)
	resp, err := client.MatchesByDate(ctx, now.Format("20060102"))
	if err != nil {
		log.Fatalf("matches error: %v", err)
	}

	fixtures := make([]bingodto.Fixture, 0, 16)
	for _, league := range resp.Leagues {
		for _, m := range league.Matches {
			if m.Home == nil || m.Away == nil {
				continue
			}
			home := teamLabel(m.Home.Name)
			away := teamLabel(m.Away.Name)
			fixtures = append(fixtures, bingodto.Fixture{
				ID:       m.ID.Int64(),
				Label:    home + " vs " + away,
				HomeName: home,
				AwayName: away,
			})
		}
	}

	messages, err := msgcat.New("")
	if err != nil {
		log.Fatalf("messages error: %v", err)
	}
	formatter := bingopresenter.NewFormatter(messages)
	fmt.Println(formatter.FixtureTable(bingodto.FixtureList{
		Date:     now.Format("2006-01-02"),
		Timezone: loc.String(),
		Fixtures: fixtures,
	}))

	probe := os.Getenv("FOT_PROBE_TEAM")
	if probe == "" {
		return
	}
	teamID, err := strconv.ParseInt(probe, 10, 64)
	if err != nil {
		log.Fatalf("bad FOT_PROBE_TEAM %q: %v", probe, err)
	}
	team, err := client.Team(ctx, teamID)
	if err != nil {
		log.Fatalf("team error: %v", err)
	}
	total := 0
	for _, group := range team.Squad.Squad {
		total += len(group.Members)
	}
	fmt.Printf("team %d squad: %d groups, %d members\n", teamID, len(team.Squad.Squad), total)
}

func teamLabel(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}
