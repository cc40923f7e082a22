// Package validation checks request and configuration structs with
// go-playground/validator. Field names in messages use the json (or koanf)
// tag so they match what the client sent.
package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/habitify/internal/errors"
	"github.com/julianstephens/habitify/internal/utils"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the shared validator instance
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"json", "koanf"} {
				name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})

		// HH:MM:SS
		_ = validate.RegisterValidation("reminder_time", func(fl validator.FieldLevel) bool {
			return utils.ValidateReminderTime(fl.Field().String())
		})
		// IANA zone name or Local
		_ = validate.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
			return utils.ValidateTimezone(fl.Field().String())
		})
	})

	return validate
}

var messageTemplates = map[string]string{
	"required":         "Missing required field: %s",
	"required_without": "Missing required field: %s",
	"hexcolor":         "%s must be a hex color such as #4CAF50",
	"reminder_time":    "Invalid %s format. Use HH:MM:SS",
	"timezone":         "%s must be a valid IANA timezone",
	"hostname_port":    "%s must be host:port",
}

var paramTemplates = map[string]string{
	"oneof":    "Invalid %s. Must be one of: %s",
	"min":      "%s must be at least %s",
	"max":      "%s must be at most %s",
	"gt":       "%s must be greater than %s",
	"gte":      "%s must be greater than or equal to %s",
	"datetime": "Invalid %s format. Use %s",
}

func translate(fe validator.FieldError) string {
	if tpl, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tpl, fe.Field())
	}
	if tpl, ok := paramTemplates[fe.Tag()]; ok {
		param := fe.Param()
		if fe.Tag() == "datetime" {
			param = layoutHint(param)
		}
		if fe.Tag() == "oneof" {
			param = strings.ReplaceAll(param, " ", ", ")
		}
		return fmt.Sprintf(tpl, fe.Field(), param)
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

func layoutHint(layout string) string {
	switch layout {
	case "2006-01-02":
		return "YYYY-MM-DD"
	case "15:04":
		return "HH:MM"
	case "15:04:05":
		return "HH:MM:SS"
	}
	return layout
}

// Struct validates s and returns a validation error carrying the first
// failure's message, or nil.
func Struct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Validation("%s", err.Error())
	}
	return errors.Validation("%s", translate(fieldErrs[0]))
}

// Messages returns every failure of s, used where all problems should be shown at once
func Messages(s interface{}) []string {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	out := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = translate(fe)
	}
	return out
}
