package render

import (
	"strings"
	"testing"

	"jobber/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const template = `<html><body>
<h1 class="name">Your Name</h1>
<section id="work-experience"><p>placeholder</p></section>
</body></html>`

func experience() []models.Experience {
	return []models.Experience{
		{
			Title:            "Backend Engineer",
			Company:          "Acme & Co",
			Start:            "Jan 2022",
			End:              "Present",
			Location:         "Remote",
			Responsibilities: []string{"Built gRPC services", "Cut p99 latency <50ms"},
		},
		{
			Title:            "Intern",
			Company:          "Initech",
			Start:            "Jun 2021",
			End:              "Aug 2021",
			Location:         "Austin, TX",
			Responsibilities: []string{"Wrote tests"},
		},
	}
}

func TestInjectExperience(t *testing.T) {
	doc, err := ParseTemplate(strings.NewReader(template))
	require.NoError(t, err)

	require.NoError(t, InjectExperience(doc, experience()))

	section := doc.Find("#work-experience")
	assert.Equal(t, 0, section.Find("p").Length())
	assert.Equal(t, 2, section.Find("table.experience").Length())
	assert.Equal(t, 2, section.Find("ul.bullets").Length())

	first := section.Find("table.experience").First()
	assert.Equal(t, "Backend Engineer", first.Find("td.title").Text())
	assert.Equal(t, "Jan 2022 – Present", first.Find("td.date").Text())
	assert.Equal(t, "Acme & Co", first.Find("td.company").Text())
	assert.Equal(t, "Remote", first.Find("td.location").Text())
	assert.Equal(t, 2, first.Find("tbody > tr").Length())

	bullets := section.Find("ul.bullets").First().Find("li")
	assert.Equal(t, 2, bullets.Length())
	assert.Equal(t, "Cut p99 latency <50ms", bullets.Last().Text())

	//table precedes its bullet list
	assert.True(t, first.Next().Is("ul.bullets"))
}

func TestInjectExperience_ReplacesPrevious(t *testing.T) {
	doc, err := ParseTemplate(strings.NewReader(template))
	require.NoError(t, err)

	require.NoError(t, InjectExperience(doc, experience()))
	require.NoError(t, InjectExperience(doc, experience()[:1]))

	assert.Equal(t, 1, doc.Find("#work-experience table.experience").Length())
}

func TestInjectExperience_NoSection(t *testing.T) {
	doc, err := ParseTemplate(strings.NewReader(`<html><body></body></html>`))
	require.NoError(t, err)

	assert.ErrorIs(t, InjectExperience(doc, experience()), ErrNoSection)
}

func TestSetNameAndHTML(t *testing.T) {
	doc, err := ParseTemplate(strings.NewReader(template))
	require.NoError(t, err)

	SetName(doc, "Ada Lovelace")
	out, err := HTML(doc)
	require.NoError(t, err)

	assert.Contains(t, out, "Ada Lovelace")
	assert.NotContains(t, out, "Your Name")
}
