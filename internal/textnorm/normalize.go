// Package textnorm reduces free text to lowercase ASCII words separated by single spaces.
// Every comparison in dedup and search goes through Normalize so scores stay comparable.
package textnorm

import "strings"

// Normalize lowercases text, replaces every character outside [a-z0-9] and whitespace
// with a space, collapses whitespace runs and trims. Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		// Punctuation, whitespace and non-ASCII letters all act as separators.
		pendingSpace = true
	}
	return b.String()
}

// Words returns the space-separated words of the normalized text.
func Words(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}
