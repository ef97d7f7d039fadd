package tailor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"jobber/internal/models"
)

// ErrExperienceMismatch means the update list does not line up with the
// résumé's roles.
var ErrExperienceMismatch = errors.New("work experience count mismatch")

// LoadResume reads the résumé data file at path.
func LoadResume(path string) (*models.Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read resume data: %w", err)
	}
	var r models.Resume
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("could not parse resume data %s: %w", path, err)
	}
	return &r, nil
}

// UpdateWorkExperience pairs updates with roles by position. A pair whose
// titles match gets its responsibilities replaced; other pairs are left
// alone. When the lengths differ nothing is touched.
func UpdateWorkExperience(resume *models.Resume, updates []models.ExperienceUpdate) error {
	roles := resume.Data.WorkExperience
	if len(roles) != len(updates) {
		return fmt.Errorf("%w: resume has %d roles, got %d", ErrExperienceMismatch, len(roles), len(updates))
	}
	for i := range roles {
		if roles[i].Title == updates[i].Title {
			roles[i].Responsibilities = append([]string(nil), updates[i].Responsibilities...)
		}
	}
	return nil
}
