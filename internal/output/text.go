package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/quill/internal/review"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}
	s := report.Summary

	ew.printf("Quill Inline Review: change %s\n", changeLabel(report.Change))
	ew.printf("Revision: %s\n", report.Change.Revision)
	ew.printf("Rater: %s", report.Rater)
	if report.Model != "" {
		ew.printf(" (%s)", report.Model)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))
	ew.printf("Files: %d reviewed, %d skipped | Lines: %d | Comments: %d\n",
		s.Reviewed, s.Skipped, s.Lines, s.Comments)
	if s.CacheHits > 0 || s.RaterErrors > 0 {
		ew.printf("Cache hits: %d | Rater errors: %d\n", s.CacheHits, s.RaterErrors)
	}
	ew.println(strings.Repeat("─", 60))

	for _, f := range report.Files {
		if f.Skipped != "" {
			ew.printf("  %-40s skipped (%s)\n", f.Path, f.Skipped)
			continue
		}
		ew.printf("  %-40s %s, %d lines, %d comments", f.Path, f.Strategy, f.Lines, f.Comments)
		if f.Capped {
			ew.printf(" (capped)")
		}
		ew.println("")
	}

	if len(report.Comments) == 0 {
		ew.println("\nNo comments. Looks good!")
	} else {
		current := ""
		for _, c := range report.Comments {
			if c.Path != current {
				current = c.Path
				ew.printf("\n%s\n", c.Path)
				ew.println(strings.Repeat("─", 40))
			}
			ew.printf("  %d: %s\n", c.Line, c.Code)
			for _, line := range wrapText(c.Message, 70) {
				ew.printf("      %s\n", line)
			}
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	switch {
	case report.Posted:
		ew.println("Review posted.")
	case report.DryRun:
		ew.println("Dry run: nothing posted.")
	}
	ew.printf("Completed in %dms (list: %dms, review: %dms, post: %dms)\n",
		report.Timing.TotalMs, report.Timing.ListMs, report.Timing.ReviewMs, report.Timing.PostMs)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func changeLabel(c review.ChangeInfo) string {
	if c.Number > 0 {
		return fmt.Sprintf("%d", c.Number)
	}
	return c.ID
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
