// Package extract finds the lines a patch added to a file.
//
// [AddedLines] scans unified-diff text for one file and returns every
// non-blank added line numbered by its position in the post-patch revision.
// [FileLines] treats every non-blank line of a whole file as added; it is the
// approximation used when no usable patch exists.
//
// [Extractor] ties the two together: it prefers the patch, falls back to the
// full file when the patch cannot be fetched, decoded, or contains no added
// lines, and returns an empty result rather than an error when both fail.
package extract
