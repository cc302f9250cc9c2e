package output

import "github.com/dshills/quill/internal/review"

func sampleReport() *review.Report {
	files := []review.FileReport{
		{Path: "/COMMIT_MSG", Skipped: review.SkipMagic},
		{Path: "main.go", Strategy: "patch", Lines: 3, Rated: 3, Comments: 2},
		{Path: "util.py", Strategy: "full-file", Lines: 10, Rated: 10, Comments: 1, Capped: true},
	}
	return &review.Report{
		Tool:    "quill",
		Version: "1.0",
		RunID:   "test-run",
		Change:  review.ChangeInfo{ID: "proj~main~I1", Number: 74787, Revision: "deadbeef"},
		Rater:   "endpoint",
		Summary: review.ComputeSummary(files),
		Files:   files,
		Comments: []review.Comment{
			{Path: "main.go", Line: 4, Code: "x := compute()", Message: "The error from compute is ignored."},
			{Path: "main.go", Line: 9, Code: "fmt.Println(x)", Message: "Use the logger instead of printing."},
			{Path: "util.py", Line: 2, Code: "import os, sys", Message: "Split the imports onto separate lines."},
		},
		Posted: true,
		Timing: review.Timing{ListMs: 12, ReviewMs: 340, PostMs: 20, TotalMs: 372},
	}
}

func emptyReport() *review.Report {
	return &review.Report{
		Tool:     "quill",
		Version:  "1.0",
		Change:   review.ChangeInfo{ID: "proj~main~I2", Revision: "cafe"},
		Rater:    "anthropic",
		Model:    "claude-haiku",
		Files:    []review.FileReport{},
		Comments: []review.Comment{},
		DryRun:   true,
	}
}
