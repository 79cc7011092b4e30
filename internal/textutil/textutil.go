package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// Hash computes a SHA-256 hex hash of a string, used to fingerprint file
// content before and after a rewrite.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Truncate shortens s to at most maxLen runes, appending "..." if truncated.
// It never splits a multi-byte character.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}

// FirstMatch returns the first of patterns found in s.
func FirstMatch(s string, patterns []string) (string, bool) {
	for _, p := range patterns {
		if p != "" && strings.Contains(s, p) {
			return p, true
		}
	}
	return "", false
}
