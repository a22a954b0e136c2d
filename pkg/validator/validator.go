package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rule chains for identity fields, shared by forms and the check endpoints.
const (
	UsernameRules = "min=4,max=15,username_chars,not_numeric,not_reserved"
	EmailRules    = "email,max=255"
	// LinkRules accept absolute http and https URLs only.
	LinkRules = "http_url,max=2048"
)

var usernameCharsRegex = regexp.MustCompile(`^[a-z0-9_]+$`)

// ReservedWords are top-level route segments that can never be claimed as usernames.
var ReservedWords = map[string]struct{}{
	"about":    {},
	"account":  {},
	"admin":    {},
	"api":      {},
	"auth":     {},
	"check":    {},
	"edit":     {},
	"explore":  {},
	"help":     {},
	"home":     {},
	"login":    {},
	"logout":   {},
	"new":      {},
	"posts":    {},
	"privacy":  {},
	"profile":  {},
	"profiles": {},
	"register": {},
	"settings": {},
	"signin":   {},
	"signup":   {},
	"static":   {},
	"tags":     {},
	"terms":    {},
	"user":     {},
	"users":    {},
}

// IsReserved reports whether value is a reserved route word.
func IsReserved(value string) bool {
	_, ok := ReservedWords[strings.ToLower(value)]
	return ok
}

// New returns a validator with the project's custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("username_chars", func(fl validator.FieldLevel) bool {
		return usernameCharsRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("not_numeric", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), func(r rune) bool {
			return r < '0' || r > '9'
		}) >= 0
	})
	_ = v.RegisterValidation("not_reserved", func(fl validator.FieldLevel) bool {
		return !IsReserved(fl.Field().String())
	})
	return v
}

// FirstMessage returns the message for the first failing rule in err, which is
// what validator.Var reports for a single value.
func FirstMessage(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		return FieldMessage(validationErrors[0])
	}
	return "Invalid value"
}

// FieldMessage renders a human readable message for a failed rule.
func FieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Must be a valid email address"
	case "url", "http_url":
		return "Must be a valid URL"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", fe.Param())
	case "numeric", "number":
		return "Must be a number"
	case "username_chars":
		return "Only lowercase letters, numbers and underscores are allowed"
	case "not_numeric":
		return "Cannot contain only numbers"
	case "not_reserved":
		return "This name is reserved"
	default:
		return "Invalid value"
	}
}
