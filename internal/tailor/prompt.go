package tailor

import (
	"encoding/json"
	"fmt"

	"jobber/internal/models"
)

const systemPrompt = `You are a resume optimization assistant.`

// BuildPrompt sends only titles and responsibilities, never personal details.
func BuildPrompt(resume *models.Resume, jobDescription string, bulletsPerRole int) (string, error) {
	extracted := make([]models.ExperienceUpdate, len(resume.Data.WorkExperience))
	for i, exp := range resume.Data.WorkExperience {
		extracted[i] = models.ExperienceUpdate{Title: exp.Title, Responsibilities: exp.Responsibilities}
	}
	expJSON, err := json.Marshal(extracted)
	if err != nil {
		return "", fmt.Errorf("failed to marshal experience: %w", err)
	}

	return fmt.Sprintf("I will give you a JSON array containing my job titles and a list of my job responsibilities, along with a job posting description. "+
		"Your job is to rewrite and select %d bullet points per role that are most relevant to the job description. "+
		"You are allowed to combine bullets as well. "+
		"Return the same JSON array, in the same order, with the same titles. "+
		"Do not include any markdown or explanations. Use double quotes. No periods.\n\n"+
		"Experience:\n%s\n\nJob Description:\n%s", bulletsPerRole, expJSON, jobDescription), nil
}
