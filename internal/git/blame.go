package git

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// GetBlame returns per-line annotations for the file at HEAD, parsed from
// `git blame --porcelain`.
func (e *RealExecutor) GetBlame(ctx context.Context, path string) ([]BlameLine, error) {
	out, err := e.runGitOutput(ctx, "blame", "--porcelain", "--", path)
	if err != nil {
		return nil, err
	}
	return parseBlamePorcelain(out), nil
}

// parseBlamePorcelain parses porcelain blame output. Each line group starts
// with "<sha> <origLine> <finalLine> [<group size>]", carries header tags
// for the first occurrence of a commit, and ends with a tab-prefixed
// content line. Commit metadata is remembered across groups because
// porcelain only emits it once per commit.
func parseBlamePorcelain(out string) []BlameLine {
	type commitMeta struct {
		author string
		time   time.Time
	}

	metas := make(map[string]commitMeta)
	var result []BlameLine

	var current BlameLine
	var currentSHA string

	for _, raw := range strings.Split(out, "\n") {
		if raw == "" {
			continue
		}

		if strings.HasPrefix(raw, "\t") {
			current.Content = raw[1:]
			if meta, ok := metas[currentSHA]; ok {
				current.Author = meta.author
				current.Time = meta.time
			}
			result = append(result, current)
			current = BlameLine{}
			continue
		}

		if sha, lineNum, ok := parseBlameHeader(raw); ok {
			currentSHA = sha
			current.CommitHash = sha
			current.LineNum = lineNum
			continue
		}

		switch {
		case strings.HasPrefix(raw, "author "):
			meta := metas[currentSHA]
			meta.author = strings.TrimPrefix(raw, "author ")
			metas[currentSHA] = meta
		case strings.HasPrefix(raw, "author-time "):
			meta := metas[currentSHA]
			if secs, err := strconv.ParseInt(strings.TrimPrefix(raw, "author-time "), 10, 64); err == nil {
				meta.time = time.Unix(secs, 0)
			}
			metas[currentSHA] = meta
		}
	}

	return result
}

// parseBlameHeader matches "<40-hex-sha> <origLine> <finalLine> [...]".
func parseBlameHeader(line string) (sha string, finalLine int, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 || len(fields[0]) != 40 {
		return "", 0, false
	}
	for _, r := range fields[0] {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return "", 0, false
		}
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil {
		return "", 0, false
	}
	return fields[0], n, true
}
