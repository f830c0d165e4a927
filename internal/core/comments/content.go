package comments

import (
	"Socialite/internal/core/textutil"
)

// MaxContentLength is the comment limit in grapheme clusters
const MaxContentLength = 10000

// normalizeContent strips markup and surrounding whitespace and enforces
// the length limits.
func normalizeContent(raw string) (string, error) {
	content := textutil.Sanitize(raw)
	if content == "" {
		return "", ErrContentEmpty
	}
	if textutil.Length(content) > MaxContentLength {
		return "", ErrContentTooLong
	}
	return content, nil
}
