package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

var (
	dniPattern         = regexp.MustCompile(`^\d{8}[A-Z]$`)
	cycleCodePattern   = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,7}$`)
	subjectCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,9}$`)
	phonePattern       = regexp.MustCompile(`^\d{9}$`)
)

// validate is configured once and only read afterwards.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "dni", patternRule(dniPattern))
	mustRegister(v, "cycle_code", patternRule(cycleCodePattern))
	mustRegister(v, "subject_code", patternRule(subjectCodePattern))
	mustRegister(v, "phone", patternRule(phonePattern))
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func patternRule(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// validateEntity runs struct-tag rules and renders failures as a single
// human-readable validation error.
func validateEntity(entity string, value interface{}) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErrors.Clonef(appErrors.ErrValidation, "invalid %s: %v", entity, err)
	}
	reasons := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		reasons = append(reasons, describe(fe))
	}
	return appErrors.Clonef(appErrors.ErrValidation, "invalid %s: %s", entity, strings.Join(reasons, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "dni":
		return field + " must be 8 digits followed by an uppercase letter"
	case "cycle_code":
		return field + " must be an uppercase letter followed by 1-7 uppercase letters or digits"
	case "subject_code":
		return field + " must be an uppercase letter followed by 1-9 uppercase letters or digits"
	case "phone":
		return field + " must be 9 digits"
	case "email":
		return field + " must be a valid e-mail address"
	case "oneof":
		return field + " must be one of " + fe.Param()
	case "gte", "min":
		return field + " must be at least " + fe.Param()
	case "lte", "max":
		return field + " must be at most " + fe.Param()
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func invalid(format string, args ...interface{}) error {
	return appErrors.Clonef(appErrors.ErrValidation, format, args...)
}
