package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxMessageLength caps message bodies in characters.
const MaxMessageLength = 2000

var regNoRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)

// ValidateRegNo checks that a registration number contains only
// allowed characters (alphanumeric, underscores, hyphens; 3-30 chars).
func ValidateRegNo(regNo string) bool {
	return regNoRegex.MatchString(regNo)
}

// TrimBody normalizes a message body for validation and storage.
func TrimBody(body string) string {
	return strings.TrimSpace(body)
}

// BodyTooLong reports whether a body exceeds the message length cap.
func BodyTooLong(body string) bool {
	return utf8.RuneCountInString(body) > MaxMessageLength
}
