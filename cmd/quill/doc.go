// Quill is an inline review bot for Gerrit.
//
// For one change it extracts the lines each file's patch adds (or every line
// of the file when the patch is unavailable), asks a line rater for a short
// comment on each, and posts the comments back as a single inline review.
//
// Usage:
//
//	quill review 74787              # review and post
//	quill review 74787 --dry-run    # review and print only
//	quill changes                   # list open changes
//	quill extract change.patch      # print added lines of a local patch
//	quill raters doctor             # check the configured rater
//
// Connection settings come from GERRIT_URL, GERRIT_USER, GERRIT_PASS and
// LLM_API, or from `quill config set`.
package main
