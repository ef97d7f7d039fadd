// Package render writes résumé data into the HTML template.
package render

import (
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"jobber/internal/models"

	"github.com/PuerkitoBio/goquery"
)

const SectionID = "work-experience"

var ErrNoSection = errors.New("template has no #" + SectionID + " section")

// LoadTemplate parses the HTML template at path.
func LoadTemplate(path string) (*goquery.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not load template: %w", err)
	}
	defer f.Close()
	return ParseTemplate(f)
}

func ParseTemplate(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return doc, nil
}

// InjectExperience replaces the content of #work-experience with one
// experience table and bullet list per role.
func InjectExperience(doc *goquery.Document, experience []models.Experience) error {
	section := doc.Find("#" + SectionID).First()
	if section.Length() == 0 {
		return ErrNoSection
	}

	var b strings.Builder
	for _, exp := range experience {
		writeExperience(&b, exp)
	}
	section.SetHtml(b.String())
	return nil
}

// SetName fills every .name element with the candidate's name.
func SetName(doc *goquery.Document, name string) {
	if name == "" {
		return
	}
	doc.Find(".name").SetText(name)
}

func writeExperience(b *strings.Builder, exp models.Experience) {
	esc := html.EscapeString
	b.WriteString(`<table class="experience"><tbody>`)
	fmt.Fprintf(b, `<tr><td class="title">%s</td><td class="date">%s</td></tr>`, esc(exp.Title), esc(exp.Dates()))
	fmt.Fprintf(b, `<tr><td class="company">%s</td><td class="location">%s</td></tr>`, esc(exp.Company), esc(exp.Location))
	b.WriteString(`</tbody></table>`)

	b.WriteString(`<ul class="bullets">`)
	for _, bullet := range exp.Responsibilities {
		fmt.Fprintf(b, `<li>%s</li>`, esc(bullet))
	}
	b.WriteString(`</ul>`)
}

// HTML serializes the whole document.
func HTML(doc *goquery.Document) (string, error) {
	return goquery.OuterHtml(doc.Selection)
}
