// Package cache provides a file-based cache for line rater answers.
//
// Entries are keyed by a SHA-256 hash of the rater name, model, and the
// (already redacted) line content. Each entry stores the rater's comment,
// which may be empty when the rater had nothing to say, so that unchanged
// lines are not rated again when a change is re-reviewed. Expired entries are
// skipped on read and counted by [Cache.GetStats].
//
// The default cache directory is $XDG_CACHE_HOME/quill (or the OS-appropriate
// equivalent).
package cache
