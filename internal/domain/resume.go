package domain

// ResumeProfile is the structured summary extracted from an uploaded resume.
// It seeds question prompts and personalizes fallback questions.
type ResumeProfile struct {
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone,omitempty"`
	Summary        string            `json:"summary,omitempty"`
	Skills         []string          `json:"skills,omitempty"`
	Experience     []ExperienceEntry `json:"experience,omitempty"`
	Education      []EducationEntry  `json:"education,omitempty"`
	Projects       []ProjectEntry    `json:"projects,omitempty"`
	Certifications []string          `json:"certifications,omitempty"`
}

type ExperienceEntry struct {
	Company  string `json:"company"`
	Position string `json:"position"`
	Duration string `json:"duration,omitempty"`
}

type EducationEntry struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
	Field  string `json:"field,omitempty"`
	Year   string `json:"year,omitempty"`
}

type ProjectEntry struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}
