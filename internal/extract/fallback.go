package extract

import "strings"

// FileLines treats every non-blank line of a file as added. Numbers are
// positions in the whole file, so blank lines leave gaps.
func FileLines(text string) []AddedLine {
	var lines []AddedLine
	for i, line := range splitLines(text) {
		if content := strings.TrimSpace(line); content != "" {
			lines = append(lines, AddedLine{Number: i + 1, Content: content})
		}
	}
	return lines
}
