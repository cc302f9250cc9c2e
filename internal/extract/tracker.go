package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Numbering selects how removed lines affect the post-patch line cursor.
type Numbering string

const (
	// NumberingCompat advances the cursor on removed lines as well as on
	// context lines. This reproduces the line numbers the review bot has
	// always posted.
	NumberingCompat Numbering = "compat"
	// NumberingAccurate advances the cursor only on context and added
	// lines, which is what the post-patch file actually contains.
	NumberingAccurate Numbering = "accurate"
)

// ParseNumbering validates a numbering mode name. An empty name selects
// NumberingCompat.
func ParseNumbering(s string) (Numbering, bool) {
	switch Numbering(s) {
	case "", NumberingCompat:
		return NumberingCompat, true
	case NumberingAccurate:
		return NumberingAccurate, true
	default:
		return "", false
	}
}

// AddedLine is a line of the post-patch file together with its 1-based
// line number. Content is trimmed and never empty.
type AddedLine struct {
	Number  int    `json:"line"`
	Content string `json:"content"`
}

type trackerState int

const (
	seekingHunk trackerState = iota
	inHunk
)

var newStartRe = regexp.MustCompile(`\+(\d+)`)

// hunkStart returns the new-file start line from a hunk header such as
// "@@ -10,2 +10,3 @@". ok is false when the header carries no "+N".
func hunkStart(header string) (start int, ok bool) {
	m := newStartRe.FindStringSubmatch(header)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// tracker reconstructs post-patch line numbers while a patch is fed to it one
// line at a time.
type tracker struct {
	state     trackerState
	cursor    int
	numbering Numbering
	lineNo    int

	lines []AddedLine
	errs  []error
}

func newTracker(numbering Numbering) *tracker {
	if numbering == "" {
		numbering = NumberingCompat
	}
	return &tracker{numbering: numbering}
}

func (t *tracker) feed(line string) {
	t.lineNo++

	switch {
	case strings.HasPrefix(line, "@@"):
		start, ok := hunkStart(line)
		if !ok {
			t.fail(line, "hunk header without new-file start line")
			return
		}
		t.cursor = start - 1
		t.state = inHunk

	case strings.HasPrefix(line, "+++"):
		// file header

	case strings.HasPrefix(line, "+"):
		if t.state != inHunk {
			t.fail(line, "added line before any hunk header")
			return
		}
		t.cursor++
		if t.cursor < 1 {
			t.fail(line, "added line before new-file line 1")
			return
		}
		if content := strings.TrimSpace(line[1:]); content != "" {
			t.lines = append(t.lines, AddedLine{Number: t.cursor, Content: content})
		}

	case strings.HasPrefix(line, "-"):
		if t.state == inHunk && t.numbering == NumberingCompat {
			t.cursor++
		}

	case strings.HasPrefix(line, " "):
		if t.state == inHunk {
			t.cursor++
		}
	}
}

func (t *tracker) fail(line, reason string) {
	t.errs = append(t.errs, &ParseError{Line: t.lineNo, Text: line, Reason: reason})
}
