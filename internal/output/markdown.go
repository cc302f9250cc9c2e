package output

import (
	"io"
	"path"
	"strings"

	"github.com/dshills/quill/internal/review"
)

// MarkdownWriter outputs the comments as a markdown digest, one collapsible
// section per file.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}
	s := report.Summary

	ew.printf("## Quill Inline Review: change %s\n\n", changeLabel(report.Change))

	ew.printf("| Files reviewed | Skipped | Lines | Comments |\n")
	ew.printf("|----------------|---------|-------|----------|\n")
	ew.printf("| %d | %d | %d | %d |\n\n", s.Reviewed, s.Skipped, s.Lines, s.Comments)

	if len(report.Comments) == 0 {
		ew.println("No comments. :white_check_mark:")
		return ew.err
	}

	byFile := groupByFile(report.Comments)
	for _, f := range report.Files {
		comments := byFile[f.Path]
		if len(comments) == 0 {
			continue
		}
		ew.printf("<details>\n<summary><code>%s</code> (%d)</summary>\n\n", f.Path, len(comments))
		lang := inferLang(f.Path)
		for _, c := range comments {
			ew.printf("**Line %d**\n\n", c.Line)
			ew.printf("```%s\n%s\n```\n\n", lang, c.Code)
			ew.printf("> %s\n\n", strings.ReplaceAll(c.Message, "\n", "\n> "))
		}
		ew.printf("</details>\n\n")
	}

	ew.printf("*Reviewed in %dms (list: %dms, review: %dms, post: %dms)*\n",
		report.Timing.TotalMs, report.Timing.ListMs, report.Timing.ReviewMs, report.Timing.PostMs)

	return ew.err
}

func groupByFile(comments []review.Comment) map[string][]review.Comment {
	m := make(map[string][]review.Comment)
	for _, c := range comments {
		m[c.Path] = append(m[c.Path], c)
	}
	return m
}

var langByExt = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".tsx":  "tsx",
	".jsx":  "jsx",
	".rs":   "rust",
	".java": "java",
	".rb":   "ruby",
	".cpp":  "cpp",
	".c":    "c",
	".cs":   "csharp",
	".php":  "php",
	".sh":   "bash",
	".sql":  "sql",
	".yaml": "yaml",
	".yml":  "yaml",
	".json": "json",
	".tf":   "hcl",
}

func inferLang(p string) string {
	return langByExt[path.Ext(p)]
}
