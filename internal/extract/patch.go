package extract

import "strings"

// Options controls patch scanning.
type Options struct {
	Numbering Numbering
}

// AddedLines returns the non-blank lines a unified-diff patch adds, in the
// order they appear, numbered by their position in the post-patch file.
//
// Malformed lines never stop the scan. Each one is skipped and reported as a
// *ParseError in errs.
func AddedLines(patch string, opts Options) (lines []AddedLine, errs []error) {
	t := newTracker(opts.Numbering)
	for _, line := range splitLines(patch) {
		t.feed(line)
	}
	return t.lines, t.errs
}

// splitLines splits text on \n, \r\n and \r. A trailing terminator does not
// yield a final empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
