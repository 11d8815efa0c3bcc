// Package slug derives URL-safe identifiers from free-form titles.
package slug

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make lowercases s, folds accented letters to ASCII and collapses every run
// of non-alphanumeric characters into a single hyphen. Leading and trailing
// hyphens are trimmed. The result may be empty.
func Make(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// ForTitle returns Make(title), or a random "note-xxxxxxxx" slug when the
// title has nothing to derive from.
func ForTitle(title string) string {
	if s := Make(title); s != "" {
		return s
	}
	return "note-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Ensure fills *current from title when it is blank. An existing slug is
// never regenerated. Reports whether a slug was generated.
func Ensure(current *string, title string) bool {
	if strings.TrimSpace(*current) != "" {
		return false
	}
	*current = ForTitle(title)
	return true
}
