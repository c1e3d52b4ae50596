package eventcat

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	yaml "gopkg.in/yaml.v3"
)

//go:embed events.yaml
var defaultFiles embed.FS

// Builder categories accepted by the square builder.
const (
	CategoryPlayer = "player"
	CategoryTeam   = "team"
	CategoryGame   = "game"
)

// Catalog holds the statistical event vocabularies, loaded from the embedded
// defaults and optionally overridden from a directory of YAML files.
type Catalog struct {
	mu     sync.RWMutex
	player []string
	team   []string
	game   []string
}

type vocabularyFile struct {
	Player []string `yaml:"player"`
	Team   []string `yaml:"team"`
	Game   []string `yaml:"game"`
}

// New loads the embedded vocabularies and then applies overrides from dir if
// provided. An override file replaces only the categories it lists.
func New(overrideDir string) (*Catalog, error) {
	c := &Catalog{}

	raw, err := fs.ReadFile(defaultFiles, "events.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded events: %w", err)
	}
	if err := c.applyYAML(raw); err != nil {
		return nil, fmt.Errorf("parse embedded events: %w", err)
	}

	if strings.TrimSpace(overrideDir) != "" {
		if err := c.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}

	if len(c.player) == 0 || len(c.team) == 0 || len(c.game) == 0 {
		return nil, fmt.Errorf("event catalog incomplete: player=%d team=%d game=%d",
			len(c.player), len(c.team), len(c.game))
	}
	return c, nil
}

func (c *Catalog) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read event catalog dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := c.applyYAML(b); err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return nil
}

func (c *Catalog) applyYAML(b []byte) error {
	var vf vocabularyFile
	if err := yaml.Unmarshal(b, &vf); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(vf.Player) > 0 {
		cleaned, err := cleanList("player", vf.Player)
		if err != nil {
			return err
		}
		c.player = cleaned
	}
	if len(vf.Team) > 0 {
		cleaned, err := cleanList("team", vf.Team)
		if err != nil {
			return err
		}
		c.team = cleaned
	}
	if len(vf.Game) > 0 {
		cleaned, err := cleanList("game", vf.Game)
		if err != nil {
			return err
		}
		c.game = cleaned
	}
	return nil
}

func cleanList(category string, in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		s := strings.TrimSpace(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			return nil, fmt.Errorf("duplicate %s event %q", category, s)
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// Player returns a copy of the player-event vocabulary.
func (c *Catalog) Player() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.player...)
}

// Team returns a copy of the team-event vocabulary.
func (c *Catalog) Team() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.team...)
}

// Game returns a copy of the game-event vocabulary.
func (c *Catalog) Game() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.game...)
}

// Events returns the vocabulary for category, or false for an unknown one.
func (c *Catalog) Events(category string) ([]string, bool) {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case CategoryPlayer:
		return c.Player(), true
	case CategoryTeam:
		return c.Team(), true
	case CategoryGame:
		return c.Game(), true
	default:
		return nil, false
	}
}

// Has reports whether event is part of category's vocabulary (exact match).
func (c *Catalog) Has(category, event string) bool {
	events, ok := c.Events(category)
	if !ok {
		return false
	}
	for _, ev := range events {
		if ev == event {
			return true
		}
	}
	return false
}
