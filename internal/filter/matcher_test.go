package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywords(t *testing.T) {
	kw := Keywords("We use Go, PostgreSQL and Kubernetes at Café Résumé.")

	assert.Contains(t, kw, "go")
	assert.Contains(t, kw, "postgresql")
	assert.Contains(t, kw, "kubernetes")
	assert.Contains(t, kw, "cafe")
	assert.Contains(t, kw, "resume")
	assert.NotContains(t, kw, "we")
	assert.NotContains(t, kw, "and")
}

func TestMatchScore(t *testing.T) {
	kw := Keywords("Golang backend engineer with Kubernetes and gRPC")

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "two overlaps", text: "Built gRPC services on Kubernetes", want: 2},
		{name: "case and accents", text: "GOLANG Bäckend", want: 2},
		{name: "none", text: "Designed marketing campaigns", want: 0},
		{name: "repeats count once", text: "golang golang golang", want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchScore(tt.text, kw))
		})
	}
}

func TestRankBullets(t *testing.T) {
	desc := "Looking for a Go engineer to build gRPC microservices on Kubernetes"
	bullets := []string{
		"Organized team offsites",
		"Built gRPC microservices in Go",
		"Ran Kubernetes clusters",
		"Wrote documentation",
	}

	assert.Equal(t, []string{
		"Built gRPC microservices in Go",
		"Ran Kubernetes clusters",
	}, RankBullets(desc, bullets, 2))

	//ties keep input order
	assert.Equal(t, []string{
		"Built gRPC microservices in Go",
		"Ran Kubernetes clusters",
		"Organized team offsites",
		"Wrote documentation",
	}, RankBullets(desc, bullets, 0))

	assert.Len(t, RankBullets(desc, bullets, 10), 4)
	assert.Empty(t, RankBullets(desc, nil, 5))
}
