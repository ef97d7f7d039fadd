package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferCompany(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "at company comma", text: "At Acme Corp, we build things.", want: "Acme Corp"},
		{name: "at company mid text", text: "We need an engineer. At Acme Corp, join us.", want: "Acme Corp"},
		{name: "join the team", text: "Join the team at Initech and help us ship.", want: "Initech"},
		{name: "lowercase join", text: "Come join the team at Vandelay Industries today", want: "Vandelay Industries"},
		{name: "is a leading", text: "Globex Corporation is a leading provider of widgets.", want: "Globex Corporation"},
		{name: "ampersand", text: "Procter & Gamble is a global consumer goods company.", want: "Procter & Gamble"},
		{name: "equal opportunity", text: "Umbrella is an equal opportunity employer.", want: "Umbrella"},
		{name: "looking for", text: "Hooli is looking for a Go engineer", want: "Hooli"},
		{name: "accented at company", text: "At Société Générale, we value rigor.", want: "Société Générale"},
		{name: "accented looking for", text: "Ørsted is looking for a data engineer", want: "Ørsted"},
		{name: "pattern order beats text order", text: "Hooli is looking for devs. At Acme Corp, we care.", want: "Acme Corp"},
		{name: "at least is not a company", text: "at least 3 years of experience", want: Sentinel},
		{name: "no match", text: "we build things for people", want: Sentinel},
		{name: "empty", text: "", want: Sentinel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferCompany(tt.text))
		})
	}
}
