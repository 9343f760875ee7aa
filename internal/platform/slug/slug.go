package slug

import (
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// Make turns an opaque token (session id, category) into a file-name-safe
// fragment. Input with no ASCII letters or digits becomes "session".
func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = unsafeChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 48 {
		s = strings.TrimRight(s[:48], "-")
	}
	if s == "" {
		return "session"
	}
	return s
}
