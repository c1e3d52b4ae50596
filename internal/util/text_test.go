package util

import (
	"reflect"
	"testing"
)

func TestSplitNames(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"basic", "Saka, Rice, Saliba", []string{"Saka", "Rice", "Saliba"}},
		{"empties dropped", " , Saka,, Rice , ", []string{"Saka", "Rice"}},
		{"duplicates dropped", "Saka,Saka, Rice", []string{"Saka", "Rice"}},
		{"all blank", " , ,", nil},
		{"single", "Haaland", []string{"Haaland"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitNames(tc.raw)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SplitNames(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestEllipsizeRunes(t *testing.T) {
	if got := EllipsizeRunes("short", 10); got != "short" {
		t.Fatalf("unexpected ellipsize: %q", got)
	}
	if got := EllipsizeRunes("abcdefgh", 5); got != "abcd…" {
		t.Fatalf("unexpected ellipsize: %q", got)
	}
	if got := EllipsizeRunes("⭐FREE SQUARE⭐", 4); got != "⭐FR…" {
		t.Fatalf("rune-aware ellipsize broken: %q", got)
	}
	if got := EllipsizeRunes("anything", 0); got != "" {
		t.Fatalf("zero width should yield empty, got %q", got)
	}
}

func TestWrapRunes(t *testing.T) {
	got := WrapRunes("Bukayo Saka anytime goalscorer", 12)
	want := []string{"Bukayo Saka", "anytime", "goalscorer"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("WrapRunes = %v, want %v", got, want)
	}

	if got := WrapRunes("", 10); got != nil {
		t.Fatalf("empty input should yield nil, got %v", got)
	}

	got = WrapRunes("Oxlade-Chamberlain scores", 10)
	if len(got) != 2 || got[0] != "Oxlade-Ch…" {
		t.Fatalf("overlong word not ellipsized: %v", got)
	}

	for _, line := range WrapRunes("90%+ pass accuracy 2 successful dribbles", 9) {
		if n := len([]rune(line)); n > 9 {
			t.Fatalf("line %q exceeds width: %d runes", line, n)
		}
	}
}
