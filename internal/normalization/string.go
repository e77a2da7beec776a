package normalization

import (
	"strings"
	"unicode"
)

func ParseInputString(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	return normalized
}

// Slug lowercases input and joins runs of letters and digits with single
// hyphens. An input with no letters or digits yields "funnel".
func Slug(input string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range ParseInputString(input) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	if b.Len() == 0 {
		return "funnel"
	}
	return b.String()
}
