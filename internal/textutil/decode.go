package textutil

import (
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
)

// DecodeBody decodes a fetched HTML body to a string. A charset explicitly
// declared in the Content-Type header is honored first; otherwise the body
// is taken as UTF-8, and a body that is not valid UTF-8 is re-decoded as
// Windows-1252 (the usual culprit on older venue sites) instead.
func DecodeBody(body []byte, contentType string) string {
	if label := declaredCharset(contentType); label != "" && !isUTF8Label(label) {
		if enc, _ := charset.Lookup(label); enc != nil {
			if decoded, err := enc.NewDecoder().Bytes(body); err == nil {
				return string(decoded)
			}
		}
	}

	if utf8.Valid(body) {
		return string(body)
	}

	if decoded, err := charmap.Windows1252.NewDecoder().Bytes(body); err == nil {
		return string(decoded)
	}
	return string(body)
}

// declaredCharset extracts the charset parameter from a Content-Type header,
// or "" when absent or unparsable.
func declaredCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

func isUTF8Label(label string) bool {
	return strings.EqualFold(strings.TrimSpace(label), "utf-8") ||
		strings.EqualFold(strings.TrimSpace(label), "utf8")
}
