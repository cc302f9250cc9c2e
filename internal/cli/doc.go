// Package cli wires together the Cobra command tree for the quill binary.
//
// It defines the root command and all subcommands (review, changes, extract,
// raters, config, cache, version), binds flags, resolves configuration, runs
// the review engine, and maps failures to exit codes: 2 for usage errors, 3
// when Gerrit or the rater rejects the credentials, 4 for everything else.
package cli
