package extract

import (
	"errors"
	"fmt"
)

// Kind names the resource a fetch was for.
type Kind string

const (
	KindPatch   Kind = "patch"
	KindContent Kind = "content"
)

// FetchError reports that a Source could not return a patch or file body.
type FetchError struct {
	Path string
	Kind Kind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s for %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by the cause, or 0.
func (e *FetchError) StatusCode() int {
	var sc interface{ StatusCode() int }
	if errors.As(e.Err, &sc) {
		return sc.StatusCode()
	}
	return 0
}

// DecodeError reports a body that could not be turned into text.
type DecodeError struct {
	Path string
	Kind Kind
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s for %s: %v", e.Kind, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ParseError reports a patch line that could not be interpreted. Line is the
// 1-based position of the offending line in the patch text.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("patch line %d: %s: %q", e.Line, e.Reason, e.Text)
}
