package review

import (
	"github.com/dshills/quill/internal/extract"
	"github.com/dshills/quill/internal/gerrit"
)

// Comment is one inline remark about an added line.
type Comment struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Skip reasons recorded on FileReport.
const (
	SkipMagic    = "magic"
	SkipDeleted  = "deleted"
	SkipBinary   = "binary"
	SkipFiltered = "filtered"
	SkipRedacted = "redacted"
)

// FileReport summarizes the work done on one file.
type FileReport struct {
	Path     string           `json:"path"`
	Skipped  string           `json:"skipped,omitempty"`
	Strategy extract.Strategy `json:"strategy,omitempty"`
	Lines    int              `json:"lines"`
	Rated    int              `json:"rated"`
	Comments int              `json:"comments"`

	// Capped is set when maxCommentsPerFile stopped rating early.
	Capped      bool     `json:"capped,omitempty"`
	CacheHits   int      `json:"cacheHits,omitempty"`
	RaterErrors int      `json:"raterErrors,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// Summary totals the per-file counts.
type Summary struct {
	Files       int `json:"files"`
	Reviewed    int `json:"reviewed"`
	Skipped     int `json:"skipped"`
	Lines       int `json:"lines"`
	Comments    int `json:"comments"`
	CacheHits   int `json:"cacheHits"`
	RaterErrors int `json:"raterErrors"`
}

// Timing contains performance metrics.
type Timing struct {
	ListMs   int64 `json:"listMs"`
	ReviewMs int64 `json:"reviewMs"`
	PostMs   int64 `json:"postMs"`
	TotalMs  int64 `json:"totalMs"`
}

// ChangeInfo identifies the reviewed revision in a Report.
type ChangeInfo struct {
	ID       string `json:"id"`
	Number   int    `json:"number,omitempty"`
	Revision string `json:"revision"`
}

// Report is the top-level output structure.
type Report struct {
	Tool     string       `json:"tool"`
	Version  string       `json:"version"`
	RunID    string       `json:"runId"`
	Change   ChangeInfo   `json:"change"`
	Rater    string       `json:"rater"`
	Model    string       `json:"model,omitempty"`
	Summary  Summary      `json:"summary"`
	Files    []FileReport `json:"files"`
	Comments []Comment    `json:"comments"`
	DryRun   bool         `json:"dryRun"`
	Posted   bool         `json:"posted"`
	Timing   Timing       `json:"timing"`
}

// ComputeSummary calculates the summary from file reports.
func ComputeSummary(files []FileReport) Summary {
	s := Summary{Files: len(files)}
	for _, f := range files {
		if f.Skipped != "" {
			s.Skipped++
			continue
		}
		s.Reviewed++
		s.Lines += f.Lines
		s.Comments += f.Comments
		s.CacheHits += f.CacheHits
		s.RaterErrors += f.RaterErrors
	}
	return s
}

// ReviewInput groups the comments by file for posting to Gerrit.
func ReviewInput(comments []Comment, message, tag string) gerrit.ReviewInput {
	in := gerrit.ReviewInput{
		Message:  message,
		Tag:      tag,
		Comments: make(map[string][]gerrit.CommentInput),
	}
	for _, c := range comments {
		in.Comments[c.Path] = append(in.Comments[c.Path], gerrit.CommentInput{
			Line:    c.Line,
			Message: c.Message,
		})
	}
	return in
}
