// Package validation configures go-playground/validator with the domain tags
// shared by the backend request bindings and the client forms.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"medconnect/internal/models"
)

var registerNumberPattern = regexp.MustCompile(`^[0-9]{6}$`)

// New returns a validator with the domain validators registered.
func New() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

// Register adds the "timeslot" and "regnum" tags to v.
func Register(v *validator.Validate) {
	_ = v.RegisterValidation("timeslot", isTimeSlot)
	_ = v.RegisterValidation("regnum", isRegisterNumber)
}

func isTimeSlot(fl validator.FieldLevel) bool {
	return models.IsTimeSlot(fl.Field().String())
}

func isRegisterNumber(fl validator.FieldLevel) bool {
	return registerNumberPattern.MatchString(fl.Field().String())
}

// Format turns validation errors into one readable line.
func Format(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		messages := make([]string, 0, len(errs))
		for _, e := range errs {
			messages = append(messages, describe(e))
		}
		return strings.Join(messages, ", ")
	}
	return err.Error()
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", e.Field())
	case "timeslot":
		return fmt.Sprintf("%s must be one of the available time slots", e.Field())
	case "regnum":
		return fmt.Sprintf("%s must be exactly 6 digits", e.Field())
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param())
	}
	return fmt.Sprintf("%s failed on %s", e.Field(), e.Tag())
}
