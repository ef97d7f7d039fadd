package extract

import (
	"regexp"
	"strings"
)

// companyName matches a run of capitalized words in any script, e.g.
// "Acme Corp", "Procter & Gamble" or "Société Générale".
const companyName = `(\p{Lu}[\p{L}\p{N}_&\-]*(?:[ \t]+[\p{Lu}&][\p{L}\p{N}_&\-]*)*)`

var companyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bAt\s+` + companyName + `(?:[,.;:!]|\s|$)`),
	regexp.MustCompile(`\b[Jj]oin the team at\s+` + companyName),
	regexp.MustCompile(companyName + `\s+is a (?:leading|fast-growing|well-known|top-tier|global|premier|renowned|innovative|dynamic|reputable|established|trusted)\b`),
	regexp.MustCompile(companyName + `\s+is an equal opportunity employer`),
	regexp.MustCompile(companyName + `\s+is looking for`),
}

// InferCompany guesses the hiring company from free-text description using
// common posting phrasings. Returns Sentinel when nothing matches.
func InferCompany(description string) string {
	for _, re := range companyPatterns {
		if m := re.FindStringSubmatch(description); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				return name
			}
		}
	}
	return Sentinel
}
