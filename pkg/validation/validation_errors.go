package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	// Auth fields
	"Email":    "Email",
	"Password": "Password",
	"FullName": "Full name",
	"Code":     "Verification code",

	// Interview fields
	"Role":            "Role",
	"ExperienceLevel": "Experience level",
	"Domain":          "Domain",
	"Answer":          "Answer",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly
// messages. Any other binding error (malformed JSON, type mismatches) collapses
// to a generic message so parser internals never reach clients.
func FormatValidationErrors(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"Invalid request payload"}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// Message joins the formatted errors into one response message
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)

	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)

	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", label, param)

	case "oneof":
		options := strings.Join(strings.Split(param, " "), ", ")
		return fmt.Sprintf("%s must be one of: %s", label, options)

	default:
		// Fallback for unknown tags
		return fmt.Sprintf("%s is invalid", label)
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	// Return field name with spaces between camelCase words
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
