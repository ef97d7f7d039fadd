package filter

import "sort"

// MatchScore counts how many distinct keywords of text also appear in
// keywords.
func MatchScore(text string, keywords map[string]struct{}) int {
	score := 0
	for w := range Keywords(text) {
		if _, ok := keywords[w]; ok {
			score++
		}
	}
	return score
}

// RankBullets keeps the n bullets sharing the most keywords with the job
// description, best first. Ties keep their original order. n <= 0 keeps all.
func RankBullets(description string, bullets []string, n int) []string {
	keywords := Keywords(description)

	type scored struct {
		text  string
		score int
	}
	ranked := make([]scored, len(bullets))
	for i, b := range bullets {
		ranked[i] = scored{text: b, score: MatchScore(b, keywords)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if n <= 0 || n > len(ranked) {
		n = len(ranked)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = ranked[i].text
	}
	return out
}
