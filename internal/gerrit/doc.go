// Package gerrit provides a minimal Gerrit REST API client for fetching change
// files and posting inline review comments.
//
// All calls go through the authenticated /a/ endpoints with HTTP Basic
// credentials. JSON responses carry Gerrit's ")]}'" XSSI guard line, which is
// stripped before decoding. Patch and file-content bodies are returned raw
// (base64, as Gerrit sends them); decoding is left to the caller.
package gerrit
