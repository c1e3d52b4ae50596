package util

import (
	"strings"
	"unicode/utf8"
)

// SplitNames parses a comma-separated list of names, trimming whitespace and
// dropping empties and duplicates while preserving first-seen order.
func SplitNames(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// EllipsizeRunes shortens text to at most max runes, ending with an ellipsis
// when truncation happens.
func EllipsizeRunes(text string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

// WrapRunes splits text into lines of at most width runes, breaking on spaces.
// Words longer than width are ellipsized onto their own line.
func WrapRunes(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, w := range words {
		wlen := utf8.RuneCountInString(w)
		if wlen > width {
			flush()
			lines = append(lines, EllipsizeRunes(w, width))
			continue
		}
		if curLen == 0 {
			cur.WriteString(w)
			curLen = wlen
			continue
		}
		if curLen+1+wlen <= width {
			cur.WriteByte(' ')
			cur.WriteString(w)
			curLen += 1 + wlen
			continue
		}
		flush()
		cur.WriteString(w)
		curLen = wlen
	}
	flush()
	return lines
}
