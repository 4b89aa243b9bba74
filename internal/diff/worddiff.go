package diff

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Word diff constants for performance bounds.
const (
	// WordDiffMaxLineLength skips word diff for lines exceeding this length.
	WordDiffMaxLineLength = 500
	// WordDiffMaxPairs limits word diff computation to first N pairs per hunk.
	WordDiffMaxPairs = 100
	// WordDiffTimeout is the maximum time allowed for word diff per file.
	WordDiffTimeout = 50 * time.Millisecond
)

// SegmentType indicates whether a segment is unchanged, added, or removed.
type SegmentType int

const (
	// SegmentUnchanged represents unchanged text.
	SegmentUnchanged SegmentType = iota
	// SegmentAdded represents added text.
	SegmentAdded
	// SegmentRemoved represents removed text.
	SegmentRemoved
)

// Segment represents a run of text within a line with its diff status.
type Segment struct {
	Type SegmentType
	Text string
}

// WordDiffResult contains the word-level diff for a deletion/addition pair.
// Concatenating OldSegments reconstructs the deletion line exactly, and
// likewise NewSegments for the addition line.
type WordDiffResult struct {
	OldSegments []Segment // Segments for the deleted line
	NewSegments []Segment // Segments for the added line
}

// tokenize splits a line into tokens: words, individual punctuation runes,
// and each whitespace rune as its own token.
// Example: "foo.bar.baz()" -> ["foo", ".", "bar", ".", "baz", "(", ")"]
func tokenize(line string) []string {
	if line == "" {
		return nil
	}

	var tokens []string
	var current strings.Builder

	for _, r := range line {
		switch {
		case unicode.IsSpace(r):
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			tokens = append(tokens, string(r))
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			tokens = append(tokens, string(r))
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// ComputeWordDiff computes the word-level diff between a deletion line and
// its paired addition line. Tokens participating in the LCS are unchanged;
// tokens only in the deletion are removed, tokens only in the addition are
// added. If the alignment loses text on either side the whole pair degrades
// to a fully-changed classification rather than returning a broken result.
func ComputeWordDiff(oldLine, newLine string) WordDiffResult {
	if oldLine == "" && newLine == "" {
		return WordDiffResult{}
	}
	if oldLine == "" {
		return WordDiffResult{
			NewSegments: []Segment{{Type: SegmentAdded, Text: newLine}},
		}
	}
	if newLine == "" {
		return WordDiffResult{
			OldSegments: []Segment{{Type: SegmentRemoved, Text: oldLine}},
		}
	}

	oldTokens := tokenize(oldLine)
	newTokens := tokenize(newLine)

	// Token-level diff: join tokens with a delimiter that cannot occur in
	// terminal text so the LCS runs over token boundaries, not runes.
	dmp := diffmatchpatch.New()
	oldText := strings.Join(oldTokens, "\x00")
	newText := strings.Join(newTokens, "\x00")

	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var oldSegments, newSegments []Segment

	for _, d := range diffs {
		text := strings.ReplaceAll(d.Text, "\x00", "")
		if text == "" {
			continue
		}

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldSegments = append(oldSegments, Segment{Type: SegmentUnchanged, Text: text})
			newSegments = append(newSegments, Segment{Type: SegmentUnchanged, Text: text})
		case diffmatchpatch.DiffDelete:
			oldSegments = append(oldSegments, Segment{Type: SegmentRemoved, Text: text})
		case diffmatchpatch.DiffInsert:
			newSegments = append(newSegments, Segment{Type: SegmentAdded, Text: text})
		}
	}

	result := WordDiffResult{OldSegments: oldSegments, NewSegments: newSegments}

	// Round-trip invariant: each side must reconstruct its input. Semantic
	// cleanup can merge across the delimiter and drop it mid-token; treat
	// that as a malformed pair and fall back to fully changed.
	if concatSegments(result.OldSegments) != oldLine || concatSegments(result.NewSegments) != newLine {
		return WordDiffResult{
			OldSegments: []Segment{{Type: SegmentRemoved, Text: oldLine}},
			NewSegments: []Segment{{Type: SegmentAdded, Text: newLine}},
		}
	}

	return result
}

func concatSegments(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// LinePairRef references a paired deletion+addition within a hunk.
type LinePairRef struct {
	DeletedIdx int // Index in Hunk.Lines
	AddedIdx   int // Index in Hunk.Lines
}

// FindWordDiffPairs finds the deletion+addition line pairs in a hunk that
// are candidates for word-level highlighting. Pairing follows the same
// positional scheme as PairLines: runs of deletions and additions between
// context lines are matched slot by slot, so unified and side-by-side views
// highlight the same pairs. Lines with no slot partner are rendered without
// word diff.
func FindWordDiffPairs(hunk Hunk) []LinePairRef {
	var pairs []LinePairRef
	var deletions, additions []int

	flush := func() {
		n := min(len(deletions), len(additions))
		for i := 0; i < n; i++ {
			pairs = append(pairs, LinePairRef{DeletedIdx: deletions[i], AddedIdx: additions[i]})
		}
		deletions = deletions[:0]
		additions = additions[:0]
	}

	for i := range hunk.Lines {
		switch hunk.Lines[i].Type {
		case LineDeletion:
			deletions = append(deletions, i)
		case LineAddition:
			additions = append(additions, i)
		default:
			flush()
		}
	}
	flush()

	return pairs
}

// HunkWordDiff contains word diff results for all eligible pairs in a hunk.
type HunkWordDiff struct {
	// Results maps line index to word diff result.
	// For a deletion line index, read OldSegments.
	// For an addition line index, read NewSegments.
	Results map[int]WordDiffResult
}

// ComputeHunkWordDiff computes word-level diffs for a hunk.
// Respects performance bounds: max line length, max pairs, and a caller
// supplied deadline via ctx.
func ComputeHunkWordDiff(ctx context.Context, hunk Hunk) HunkWordDiff {
	result := HunkWordDiff{
		Results: make(map[int]WordDiffResult),
	}

	pairs := FindWordDiffPairs(hunk)
	if len(pairs) == 0 {
		return result
	}

	if len(pairs) > WordDiffMaxPairs {
		pairs = pairs[:WordDiffMaxPairs]
	}

	for _, pair := range pairs {
		select {
		case <-ctx.Done():
			return result
		default:
		}

		del := hunk.Lines[pair.DeletedIdx]
		add := hunk.Lines[pair.AddedIdx]

		if len(del.Content) > WordDiffMaxLineLength || len(add.Content) > WordDiffMaxLineLength {
			continue
		}

		wordDiff := ComputeWordDiff(del.Content, add.Content)
		result.Results[pair.DeletedIdx] = wordDiff
		result.Results[pair.AddedIdx] = wordDiff
	}

	return result
}

// FileWordDiff contains word diff results for all hunks in a file.
type FileWordDiff struct {
	// HunkDiffs maps hunk index to hunk word diff results.
	HunkDiffs map[int]HunkWordDiff
	// TimedOut indicates if computation was stopped due to timeout.
	TimedOut bool
}

// ComputeFileWordDiff computes word-level diffs for an entire file,
// enforcing WordDiffTimeout across all hunks.
func ComputeFileWordDiff(file FileDiff) FileWordDiff {
	result := FileWordDiff{
		HunkDiffs: make(map[int]HunkWordDiff),
	}

	if len(file.Hunks) == 0 {
		return result
	}

	ctx, cancel := context.WithTimeout(context.Background(), WordDiffTimeout)
	defer cancel()

	for i, hunk := range file.Hunks {
		select {
		case <-ctx.Done():
			result.TimedOut = true
			return result
		default:
		}

		hunkDiff := ComputeHunkWordDiff(ctx, hunk)
		if len(hunkDiff.Results) > 0 {
			result.HunkDiffs[i] = hunkDiff
		}
	}

	return result
}

// SegmentsForLine returns the word segments for a specific line if word diff
// was computed for it. Returns nil when no highlighting applies.
func (f FileWordDiff) SegmentsForLine(hunkIdx, lineIdx int, lineType LineType) []Segment {
	hunkDiff, ok := f.HunkDiffs[hunkIdx]
	if !ok {
		return nil
	}

	wordDiff, ok := hunkDiff.Results[lineIdx]
	if !ok {
		return nil
	}

	switch lineType {
	case LineDeletion:
		return wordDiff.OldSegments
	case LineAddition:
		return wordDiff.NewSegments
	default:
		return nil
	}
}
