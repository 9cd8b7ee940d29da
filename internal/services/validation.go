package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// SurveySubmission is the input of submit-survey. Fields are stored verbatim.
type SurveySubmission struct {
	Name  string `json:"name" validate:"required"`
	Age   int    `json:"age" validate:"required"`
	Model string `json:"model" validate:"required"`
}

// UserStudySubmission is the input of submit-user-study.
type UserStudySubmission struct {
	MetricA string `json:"metric_a" validate:"required,oneof=A B C D E"`
	MetricB string `json:"metric_b" validate:"required,oneof=A B C D E"`
	MetricC string `json:"metric_c" validate:"required,oneof=A B C D E"`
	Name    string `json:"name" validate:"required"`
}

// ValidateStruct runs the validate tags of v and reports the first failing
// field, in declaration order, as a *ValidationError.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Rule: fe.ActualTag(), Param: fe.Param()}
	}
	return err
}
