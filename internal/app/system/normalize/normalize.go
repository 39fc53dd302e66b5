// Package normalize provides input normalization for fields that are
// compared or indexed: emails are lowercased, names are trimmed, status
// values are lowercased so edge comparisons never miss on case.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Status lowercases and trims a status value ("Pending" -> "pending").
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
