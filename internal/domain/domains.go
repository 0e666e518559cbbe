package domain

// domainDescriptions expands the domain keys the client sends into the
// human-readable descriptions used in prompts and canned question text.
var domainDescriptions = map[string]string{
	"software": "software engineering",
	"data":     "data science and machine learning",
	"product":  "product management",
	"design":   "UI/UX design",
	"devops":   "DevOps and cloud engineering",
	"other":    "general professional roles",
}

// DomainDescription expands a domain key into its description. Unknown keys
// pass through unchanged so free-form domains still read naturally.
func DomainDescription(key string) string {
	if d, ok := domainDescriptions[key]; ok {
		return d
	}
	if key != "" {
		return key
	}
	return "a professional role"
}
