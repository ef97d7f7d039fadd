package filter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var wordRegex = regexp.MustCompile(`[a-z0-9][a-z0-9+#.\-]*[a-z0-9+#]|[a-z0-9]`)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "in": {}, "is": {}, "it": {},
	"of": {}, "on": {}, "or": {}, "our": {}, "that": {}, "the": {}, "their": {},
	"this": {}, "to": {}, "we": {}, "will": {}, "with": {}, "you": {}, "your": {},
	"using": {}, "used": {}, "team": {}, "work": {}, "role": {}, "experience": {},
}

// normalizeText folds accents and case so "Café" and "cafe" compare equal.
func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(result)
}

// Keywords returns the distinct meaningful words of text.
func Keywords(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range wordRegex.FindAllString(normalizeText(text), -1) {
		if len(w) < 2 && w != "c" && w != "r" {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}
