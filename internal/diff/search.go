package diff

import (
	"strings"
	"unicode/utf8"
)

// MatchLocation addresses one search hit within a FileDiff.
type MatchLocation struct {
	HunkIndex int    // Index of the hunk containing the match
	LineIndex int    // Index of the line within the hunk
	LineID    LineID // Positional line identifier
	Start     int    // Byte offset of the match within the line content
	End       int    // Byte offset one past the end of the match
}

// FindMatches scans every line of the diff (all types, including context and
// hunk headers) for case-insensitive substring matches of query, in hunk
// order then line order. Within a line, matches are found left to right and
// do not overlap: scanning resumes at the end of each match. An empty query
// yields no matches. Results are deterministic for identical inputs.
//
// Offsets index into the original line content. Matching folds case rune by
// rune rather than lowercasing the haystack, because lowercasing can change
// byte lengths and skew the offsets.
func FindMatches(f *FileDiff, query string) []MatchLocation {
	if f == nil || query == "" {
		return nil
	}

	queryRunes := utf8.RuneCountInString(query)
	var matches []MatchLocation

	for hi := range f.Hunks {
		for li := range f.Hunks[hi].Lines {
			line := &f.Hunks[hi].Lines[li]
			content := line.Content

			for start := 0; start < len(content); {
				n := foldMatchLen(content[start:], query, queryRunes)
				if n < 0 {
					_, size := utf8.DecodeRuneInString(content[start:])
					start += size
					continue
				}
				matches = append(matches, MatchLocation{
					HunkIndex: hi,
					LineIndex: li,
					LineID:    line.ID,
					Start:     start,
					End:       start + n,
				})
				start += n
			}
		}
	}

	return matches
}

// foldMatchLen returns the byte length of the prefix of s that matches
// needle under Unicode case folding, or -1. Case folding maps rune to rune,
// so the only candidate prefix is the one with needleRunes runes.
func foldMatchLen(s, needle string, needleRunes int) int {
	n := 0
	for i := 0; i < needleRunes; i++ {
		if n >= len(s) {
			return -1
		}
		_, size := utf8.DecodeRuneInString(s[n:])
		n += size
	}
	if strings.EqualFold(s[:n], needle) {
		return n
	}
	return -1
}

// AdvanceMatch steps the current match index by direction (+1 or -1) with
// wraparound. A count of zero is a no-op and returns current unchanged.
func AdvanceMatch(current, direction, count int) int {
	if count == 0 {
		return current
	}
	return ((current+direction)%count + count) % count
}
