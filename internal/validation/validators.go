// Package validation holds the shared validator instance and the text
// sanitization helpers used by request handling.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/agendahq/agenda-api/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance.
var Validate *validator.Validate

func init() {
	Validate = validator.New()

	// Enum validator registration only fails on a duplicate or empty tag.
	if err := Validate.RegisterValidation("task_status", validateTaskStatus); err != nil {
		panic(fmt.Sprintf("failed to register task_status validator: %v", err))
	}
}

func validateTaskStatus(fl validator.FieldLevel) bool {
	return models.TaskStatus(fl.Field().String()).Valid()
}

// SanitizeText trims whitespace and removes control characters except
// newline and tab.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Describe flattens validator errors into a message naming the first
// offending field, so 400 responses always mention what was wrong.
func Describe(err error) string {
	if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		field := jsonFieldName(fe.Field())
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", field)
		case "min":
			return fmt.Sprintf("%s must be at least %s", field, fe.Param())
		case "max":
			return fmt.Sprintf("%s must be at most %s", field, fe.Param())
		case "task_status":
			return fmt.Sprintf("%s must be one of pending, in_progress, completed, cancelled", field)
		default:
			return fmt.Sprintf("%s is invalid", field)
		}
	}
	return "validation failed"
}

// jsonFieldName lower-cases the leading rune of a struct field name so error
// messages match the JSON casing clients sent.
func jsonFieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}
