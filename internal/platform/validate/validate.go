package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v *validator.Validate

var isbnDigits = regexp.MustCompile(`^(\d{9}[\dX]|\d{13})$`)

func init() {
	v = validator.New()
	_ = v.RegisterValidation("username", validateUsername)
	_ = v.RegisterValidation("isbn", validateISBN)
	_ = v.RegisterValidation("bcrypt", validateBcryptLength)
}

// bcryptMaxBytes is the longest input bcrypt will hash.
const bcryptMaxBytes = 72

// validateBcryptLength counts bytes, where max= counts runes.
func validateBcryptLength(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= bcryptMaxBytes
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

func validateISBN(fl validator.FieldLevel) bool {
	isbn := strings.ToUpper(fl.Field().String())
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	return isbnDigits.MatchString(isbn)
}

// FieldError is one human readable validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Struct validates s by its `validate` tags.
func Struct(s any) []FieldError {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: lowerFirst(fe.Field()), Message: message(fe.Field(), fe.Tag(), fe.Param())})
	}
	return out
}

// Var validates a single value against tag, reporting failures under field.
func Var(field string, value any, tag string) *FieldError {
	err := v.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &FieldError{Field: field, Message: message(field, verrs[0].Tag(), verrs[0].Param())}
	}
	return &FieldError{Field: field, Message: err.Error()}
}

func message(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "username":
		return fmt.Sprintf("%s may only contain letters, digits, '.', '_' and '-'", field)
	case "bcrypt":
		return fmt.Sprintf("%s must be at most %d bytes", field, bcryptMaxBytes)
	case "isbn":
		return fmt.Sprintf("%s must be a valid ISBN (10 or 13 digits)", field)
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
