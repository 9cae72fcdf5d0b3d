// Package alias normalizes merchant names and maps OCR-observed merchant
// strings to user-chosen display aliases.
package alias

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Trailing store/terminal numbers OCR commonly appends, e.g. "WALMART #1234"
	// or "STARBUCKS STORE 0457".
	storeNumberRe = regexp.MustCompile(`(?i)\s*(#\d+|store\s*\d+|no\.?\s*\d+)\s*$`)
)

// Normalize produces the lookup form of a merchant or alias string:
// trimmed, lowercased, inner whitespace collapsed.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return whitespaceRe.ReplaceAllString(s, " ")
}

// CleanOCRMerchant strips trailing store numbers from a raw OCR merchant
// string so "WALMART #1234" and "WALMART #98" resolve to the same alias.
// The original casing is kept for display.
func CleanOCRMerchant(s string) string {
	s = strings.TrimSpace(s)
	cleaned := storeNumberRe.ReplaceAllString(s, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		// A merchant that is nothing but a store number stays as-is.
		return s
	}
	return cleaned
}
