package models

// Resume mirrors the résumé data file: everything lives under "data".
type Resume struct {
	Data ResumeData `json:"data"`
}

type ResumeData struct {
	Name           string       `json:"name"`
	Email          string       `json:"email,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Location       string       `json:"location,omitempty"`
	Links          []string     `json:"links,omitempty"`
	WorkExperience []Experience `json:"work_experience"`
}

type Experience struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Start            string   `json:"start"`
	End              string   `json:"end"`
	Location         string   `json:"location"`
	Responsibilities []string `json:"responsibilities"`
}

// ExperienceUpdate is what the LLM sends back per role.
type ExperienceUpdate struct {
	Title            string   `json:"title"`
	Responsibilities []string `json:"responsibilities"`
}

// Dates renders the role's date range, e.g. "Jan 2022 – Present".
func (e Experience) Dates() string {
	switch {
	case e.Start == "" && e.End == "":
		return ""
	case e.End == "":
		return e.Start
	case e.Start == "":
		return e.End
	}
	return e.Start + " – " + e.End
}
