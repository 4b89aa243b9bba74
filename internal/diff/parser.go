package diff

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Regex patterns for diff parsing
	diffHeaderRegex      = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)
	hunkHeaderRegex      = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(.*)$`)
	oldFileRegex         = regexp.MustCompile(`^--- a/(.+)$`)
	newFileRegex         = regexp.MustCompile(`^\+\+\+ b/(.+)$`)
	oldFileNullRegex     = regexp.MustCompile(`^--- /dev/null$`)
	newFileNullRegex     = regexp.MustCompile(`^\+\+\+ /dev/null$`)
	similarityRegex      = regexp.MustCompile(`^similarity index (\d+)%$`)
	renameFromRegex      = regexp.MustCompile(`^rename from (.+)$`)
	renameToRegex        = regexp.MustCompile(`^rename to (.+)$`)
	binaryFilesRegex     = regexp.MustCompile(`^Binary files .+ and .+ differ$`)
	oldModeRegex         = regexp.MustCompile(`^old mode (\d+)$`)
	newModeRegex         = regexp.MustCompile(`^new mode (\d+)$`)
	indexLineRegex       = regexp.MustCompile(`^index [a-f0-9]+\.\.[a-f0-9]+`)
	newFileModeRegex     = regexp.MustCompile(`^new file mode (\d+)$`)
	deletedFileModeRegex = regexp.MustCompile(`^deleted file mode (\d+)$`)
)

// Parse parses unified diff output into structured FileDiff slices.
// It handles standard unified diff format including edge cases like:
// - Binary files
// - Renamed files with similarity index
// - New files (--- /dev/null)
// - Deleted files (+++ /dev/null)
// - Permission changes (old mode / new mode)
// - "\ No newline at end of file" markers
func Parse(output string) ([]FileDiff, error) {
	if output == "" {
		return nil, nil
	}

	var files []FileDiff
	// git diff output is newline-terminated; without trimming, the final
	// split element would be read as an empty context line past the hunk's
	// declared counts.
	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	var currentFile *FileDiff
	var currentHunk *Hunk
	oldLineNum := 0
	newLineNum := 0

	finishFile := func() {
		if currentFile == nil {
			return
		}
		if currentHunk != nil {
			currentFile.Hunks = append(currentFile.Hunks, *currentHunk)
			currentHunk = nil
		}
		assignLineIDs(currentFile)
		files = append(files, *currentFile)
	}

	for _, line := range lines {

		// Start of a new file diff
		if matches := diffHeaderRegex.FindStringSubmatch(line); matches != nil {
			finishFile()
			currentFile = &FileDiff{
				OldPath: matches[1],
				Path:    matches[2],
			}
			currentHunk = nil
			continue
		}

		if currentFile == nil {
			continue
		}

		// Check for old file header
		if oldFileNullRegex.MatchString(line) {
			currentFile.IsNew = true
			continue
		}
		if matches := oldFileRegex.FindStringSubmatch(line); matches != nil {
			currentFile.OldPath = matches[1]
			continue
		}

		// Check for new file header
		if newFileNullRegex.MatchString(line) {
			currentFile.IsDeleted = true
			currentFile.Path = currentFile.OldPath
			continue
		}
		if matches := newFileRegex.FindStringSubmatch(line); matches != nil {
			currentFile.Path = matches[1]
			continue
		}

		// Check for similarity index (renames)
		if matches := similarityRegex.FindStringSubmatch(line); matches != nil {
			similarity, err := strconv.Atoi(matches[1])
			if err == nil {
				currentFile.Similarity = similarity
				currentFile.IsRenamed = true
			}
			continue
		}

		// Check for rename from/to
		if matches := renameFromRegex.FindStringSubmatch(line); matches != nil {
			currentFile.OldPath = matches[1]
			currentFile.IsRenamed = true
			continue
		}
		if matches := renameToRegex.FindStringSubmatch(line); matches != nil {
			currentFile.Path = matches[1]
			currentFile.IsRenamed = true
			continue
		}

		// Check for binary files
		if binaryFilesRegex.MatchString(line) {
			currentFile.IsBinary = true
			continue
		}

		// Check for new file mode (marks new files)
		if newFileModeRegex.MatchString(line) {
			currentFile.IsNew = true
			continue
		}

		// Check for deleted file mode (marks deleted files)
		if deletedFileModeRegex.MatchString(line) {
			currentFile.IsDeleted = true
			continue
		}

		// Skip mode changes and index lines (not needed for display)
		if oldModeRegex.MatchString(line) || newModeRegex.MatchString(line) || indexLineRegex.MatchString(line) {
			continue
		}

		// Parse hunk header
		if matches := hunkHeaderRegex.FindStringSubmatch(line); matches != nil {
			if currentHunk != nil {
				currentFile.Hunks = append(currentFile.Hunks, *currentHunk)
			}

			oldStart, err := strconv.Atoi(matches[1])
			if err != nil {
				return nil, fmt.Errorf("invalid old start line in hunk header: %s", line)
			}

			oldCount := 1
			if matches[2] != "" {
				oldCount, err = strconv.Atoi(matches[2])
				if err != nil {
					return nil, fmt.Errorf("invalid old count in hunk header: %s", line)
				}
			}

			newStart, err := strconv.Atoi(matches[3])
			if err != nil {
				return nil, fmt.Errorf("invalid new start line in hunk header: %s", line)
			}

			newCount := 1
			if matches[4] != "" {
				newCount, err = strconv.Atoi(matches[4])
				if err != nil {
					return nil, fmt.Errorf("invalid new count in hunk header: %s", line)
				}
			}

			currentHunk = &Hunk{
				OldStart: oldStart,
				OldCount: oldCount,
				NewStart: newStart,
				NewCount: newCount,
				Header:   line,
				Lines: []Line{{
					Type:               LineHunkHeader,
					Content:            strings.TrimSpace(matches[5]),
					HasTrailingNewline: true,
				}},
			}
			oldLineNum = oldStart
			newLineNum = newStart
			continue
		}

		// Parse diff content lines
		if currentHunk == nil {
			continue
		}

		if len(line) == 0 {
			// Empty line in diff context (treat as context with empty content)
			currentHunk.Lines = append(currentHunk.Lines, Line{
				Type:               LineContext,
				OldLineNum:         oldLineNum,
				NewLineNum:         newLineNum,
				Content:            "",
				HasTrailingNewline: true,
			})
			oldLineNum++
			newLineNum++
			continue
		}

		prefix := line[0]
		content := ""
		if len(line) > 1 {
			content = line[1:]
		}

		switch prefix {
		case ' ':
			currentHunk.Lines = append(currentHunk.Lines, Line{
				Type:               LineContext,
				OldLineNum:         oldLineNum,
				NewLineNum:         newLineNum,
				Content:            content,
				HasTrailingNewline: true,
			})
			oldLineNum++
			newLineNum++
		case '-':
			currentHunk.Lines = append(currentHunk.Lines, Line{
				Type:               LineDeletion,
				OldLineNum:         oldLineNum,
				NewLineNum:         0,
				Content:            content,
				HasTrailingNewline: true,
			})
			currentFile.Deletions++
			oldLineNum++
		case '+':
			currentHunk.Lines = append(currentHunk.Lines, Line{
				Type:               LineAddition,
				OldLineNum:         0,
				NewLineNum:         newLineNum,
				Content:            content,
				HasTrailingNewline: true,
			})
			currentFile.Additions++
			newLineNum++
		case '\\':
			// "\ No newline at end of file" applies to the preceding line
			if n := len(currentHunk.Lines); n > 0 {
				currentHunk.Lines[n-1].HasTrailingNewline = false
			}
		default:
			// Unknown prefix - could be end of hunk or malformed input
			// Don't error on this, just skip the line
			continue
		}
	}

	finishFile()

	return files, nil
}

// SyntheticAddition builds a FileDiff for an untracked file from its raw
// content: a single hunk where every line is an addition. Untracked files
// have no index entry, so this is how they are displayed before staging.
func SyntheticAddition(path, content string) FileDiff {
	fd := FileDiff{
		Path:        path,
		OldPath:     path,
		IsNew:       true,
		IsUntracked: true,
	}
	if content == "" {
		return fd
	}

	trailing := strings.HasSuffix(content, "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	hunk := Hunk{
		OldStart: 0,
		OldCount: 0,
		NewStart: 1,
		NewCount: len(lines),
		Header:   fmt.Sprintf("@@ -0,0 +1,%d @@", len(lines)),
		Lines: []Line{{
			Type:               LineHunkHeader,
			HasTrailingNewline: true,
		}},
	}
	for i, content := range lines {
		hunk.Lines = append(hunk.Lines, Line{
			Type:               LineAddition,
			NewLineNum:         i + 1,
			Content:            content,
			HasTrailingNewline: trailing || i < len(lines)-1,
		})
	}
	fd.Additions = len(lines)
	fd.Hunks = []Hunk{hunk}
	assignLineIDs(&fd)
	return fd
}
