package eventcat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedVocabularies(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := len(c.Player()); got != 25 {
		t.Fatalf("player vocabulary size = %d, want 25", got)
	}
	if got := len(c.Team()); got != 16 {
		t.Fatalf("team vocabulary size = %d, want 16", got)
	}
	if got := len(c.Game()); got != 7 {
		t.Fatalf("game vocabulary size = %d, want 7", got)
	}

	for _, probe := range []struct{ category, event string }{
		{CategoryPlayer, "anytime goalscorer"},
		{CategoryPlayer, "90%+ pass accuracy"},
		{CategoryTeam, "60%+ possession"},
		{CategoryTeam, "1+ set-piece goal"},
		{CategoryGame, "own goal"},
		{CategoryGame, "free kick goal"},
	} {
		if !c.Has(probe.category, probe.event) {
			t.Fatalf("missing %s event %q", probe.category, probe.event)
		}
	}

	if c.Has(CategoryPlayer, "own goal") {
		t.Fatal("game event leaked into player vocabulary")
	}
	if c.Has("referee", "red card") {
		t.Fatal("unknown category should never match")
	}
}

func TestEventsAccessor(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.Events("PLAYER"); !ok {
		t.Fatal("category lookup should be case-insensitive")
	}
	if _, ok := c.Events("unknown"); ok {
		t.Fatal("unknown category should report false")
	}

	// Accessors hand out copies.
	events, _ := c.Events(CategoryGame)
	events[0] = "mutated"
	if c.Game()[0] == "mutated" {
		t.Fatal("Events leaked internal slice")
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	override := "game:\n  - \"hat-trick\"\n  - \"stoppage time winner\"\n"
	if err := os.WriteFile(filepath.Join(dir, "10-game.yaml"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New with override: %v", err)
	}
	game := c.Game()
	if len(game) != 2 || game[0] != "hat-trick" {
		t.Fatalf("override not applied: %v", game)
	}
	// Untouched categories keep the embedded defaults.
	if len(c.Player()) != 25 {
		t.Fatalf("player vocabulary clobbered by override: %d", len(c.Player()))
	}
}

func TestOverrideDuplicateRejected(t *testing.T) {
	dir := t.TempDir()
	bad := "team:\n  - \"red card\"\n  - \"red card\"\n"
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	if _, err := New(dir); err == nil {
		t.Fatal("duplicate entries in an override must be rejected")
	}
}
