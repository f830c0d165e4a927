// Package textutil normalizes user-supplied text before it is stored.
package textutil

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rivo/uniseg"
)

var strictPolicy = bluemonday.StrictPolicy()

// Sanitize strips all markup from s and trims surrounding whitespace.
// The result is plain text: entities produced by the sanitizer are decoded
// again so "a < b" survives unchanged.
func Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// Length returns the number of user-perceived characters in s.
func Length(s string) int {
	return uniseg.GraphemeClusterCount(s)
}
