package models

import (
	"regexp"
	"strings"
)

var honorificPattern = regexp.MustCompile(`(?i)\b(dr|doctor)\b`)

// CleanSearchQuery drops the standalone words "dr" and "doctor" from a people
// search and trims the rest.
func CleanSearchQuery(q string) string {
	return strings.TrimSpace(honorificPattern.ReplaceAllString(q, ""))
}
