// Package review drives an inline review of one Gerrit change.
//
// The Engine lists the files of a revision, skips the ones that must not or
// cannot be reviewed, extracts the added lines of the rest with
// [extract.Extractor], and asks a [providers.Rater] for a comment on every
// line. Files are processed by a bounded errgroup and reported in listing
// order. Rater answers are cached per line, secrets are redacted before a line
// leaves the process, and the collected comments are posted back as a single
// review unless the run is a dry run.
package review
