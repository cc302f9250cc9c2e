package extract

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"
)

// Decoder turns a fetched body into text.
type Decoder func(body []byte) (string, error)

// Base64 decodes a base64 body as returned by Gerrit's patch and content
// endpoints. Whitespace inside the body is ignored and invalid UTF-8 in the
// decoded text is dropped.
func Base64(body []byte) (string, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, string(body))

	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return "", fmt.Errorf("invalid base64: %w", err)
	}
	return strings.ToValidUTF8(string(raw), ""), nil
}

// Plain treats the body as text already.
func Plain(body []byte) (string, error) {
	return strings.ToValidUTF8(string(body), ""), nil
}
