package git

import (
	"fmt"
	"strings"

	"stagewise/internal/diff"
)

// BuildPatch renders a minimal unified diff containing only the included
// lines, suitable for `git apply --cached` (forward to stage, with
// --reverse to unstage).
//
// For a forward patch, excluded deletions become context (the line is still
// present on the target side) and excluded additions are dropped. For a
// reverse patch the roles swap: excluded additions become context and
// excluded deletions are dropped, because the content being patched is the
// diff's new side. Hunk counts are recomputed; hunk start numbers are kept
// from the source diff and git matches the rest by context.
//
// Hunks with no included lines are omitted entirely; an empty selection
// yields an empty patch.
func BuildPatch(file *diff.FileDiff, include map[diff.LineID]struct{}, reverse bool) (string, error) {
	if file == nil {
		return "", fmt.Errorf("no file diff to patch")
	}
	if file.IsBinary {
		return "", fmt.Errorf("cannot build a line patch for binary file %s", file.Path)
	}

	var hunks []string
	for _, hunk := range file.Hunks {
		rendered, ok := renderHunk(hunk, include, reverse)
		if ok {
			hunks = append(hunks, rendered)
		}
	}
	if len(hunks) == 0 {
		return "", nil
	}

	var sb strings.Builder
	oldPath := file.OldPath
	if oldPath == "" {
		oldPath = file.Path
	}
	fmt.Fprintf(&sb, "diff --git a/%s b/%s\n", oldPath, file.Path)
	if file.IsNew {
		sb.WriteString("--- /dev/null\n")
	} else {
		fmt.Fprintf(&sb, "--- a/%s\n", oldPath)
	}
	if file.IsDeleted {
		sb.WriteString("+++ /dev/null\n")
	} else {
		fmt.Fprintf(&sb, "+++ b/%s\n", file.Path)
	}
	for _, h := range hunks {
		sb.WriteString(h)
	}
	return sb.String(), nil
}

// renderHunk emits one hunk with only the included changes, or ok=false
// when the hunk contributes nothing.
func renderHunk(hunk diff.Hunk, include map[diff.LineID]struct{}, reverse bool) (string, bool) {
	type patchLine struct {
		prefix          byte
		content         string
		trailingNewline bool
	}

	var lines []patchLine
	var oldCount, newCount, included int

	for _, line := range hunk.Lines {
		_, selected := include[line.ID]
		switch line.Type {
		case diff.LineContext:
			lines = append(lines, patchLine{' ', line.Content, line.HasTrailingNewline})
			oldCount++
			newCount++
		case diff.LineDeletion:
			switch {
			case selected:
				lines = append(lines, patchLine{'-', line.Content, line.HasTrailingNewline})
				oldCount++
				included++
			case reverse:
				// Not present on the new side; invisible to a reverse patch.
			default:
				lines = append(lines, patchLine{' ', line.Content, line.HasTrailingNewline})
				oldCount++
				newCount++
			}
		case diff.LineAddition:
			switch {
			case selected:
				lines = append(lines, patchLine{'+', line.Content, line.HasTrailingNewline})
				newCount++
				included++
			case reverse:
				lines = append(lines, patchLine{' ', line.Content, line.HasTrailingNewline})
				oldCount++
				newCount++
			default:
				// Not present on the old side; invisible to a forward patch.
			}
		case diff.LineHunkHeader:
			// Re-emitted below with recomputed counts.
		}
	}

	if included == 0 {
		return "", false
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", hunk.OldStart, oldCount, hunk.NewStart, newCount)
	for _, l := range lines {
		sb.WriteByte(l.prefix)
		sb.WriteString(l.content)
		sb.WriteByte('\n')
		if !l.trailingNewline {
			sb.WriteString("\\ No newline at end of file\n")
		}
	}
	return sb.String(), true
}
