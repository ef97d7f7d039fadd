package tailor

import (
	"encoding/json"
	"fmt"
	"strings"

	"jobber/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

const experienceSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["title", "responsibilities"],
    "properties": {
      "title": {"type": "string"},
      "responsibilities": {
        "type": "array",
        "items": {"type": "string"}
      }
    }
  }
}`

var experienceSchemaLoader = gojsonschema.NewStringLoader(experienceSchema)

// ParseExperience validates and decodes an LLM reply. A reply wrapped in an
// object like {"work_experience": [...]} is unwrapped first.
func ParseExperience(raw string) ([]models.ExperienceUpdate, error) {
	cleaned := cleanMarkdownJSON(raw)

	var doc interface{}
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, fmt.Errorf("llm reply is not JSON (length %d): %w", len(cleaned), err)
	}
	if obj, ok := doc.(map[string]interface{}); ok && len(obj) == 1 {
		for _, v := range obj {
			doc = v
		}
	}

	res, err := gojsonschema.Validate(experienceSchemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, err
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
	}

	//round-trip through JSON to get typed values
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var updates []models.ExperienceUpdate
	if err := json.Unmarshal(b, &updates); err != nil {
		return nil, err
	}
	for i := range updates {
		for j, r := range updates[i].Responsibilities {
			updates[i].Responsibilities[j] = strings.TrimSuffix(strings.TrimSpace(r), ".")
		}
	}
	return updates, nil
}

// cleanMarkdownJSON removes backticks and "json" prefix if the AI model tries to be helpful
func cleanMarkdownJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
