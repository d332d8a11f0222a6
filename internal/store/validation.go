package store

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/day"
	"github.com/edgarogh/mdj/internal/recurrence"
)

// ErrInvalidCourse wraps every form validation failure.
var ErrInvalidCourse = errors.New("invalid course")

// CourseSpec is what a user submits to create or edit a course.
type CourseSpec struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	J0          day.Day `json:"j_0" validate:"required"`
	JEnd        day.Day `json:"j_end" validate:"required"`
	Recurrence  string  `json:"recurrence" validate:"recurrence"`
}

func (spec CourseSpec) input() api.CourseInput {
	return api.CourseInput{
		Name:        spec.Name,
		Description: spec.Description,
		J0:          spec.J0,
		JEnd:        spec.JEnd,
		Recurrence:  spec.Recurrence,
	}
}

type recurrenceChange struct {
	J0         day.Day `json:"j_0" validate:"required"`
	JEnd       day.Day `json:"j_end" validate:"required"`
	Recurrence string  `json:"recurrence" validate:"recurrence"`
}

func newCourseValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(day.Day); ok {
			return d.String()
		}
		return nil
	}, day.Day{})

	if err := validate.RegisterValidation("recurrence", func(fl validator.FieldLevel) bool {
		return recurrence.Valid(fl.Field().String())
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register recurrence validation: %w", err)
	}
	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		spec := sl.Current().Interface().(CourseSpec)
		checkDayOrder(sl, spec.J0, spec.JEnd)
	}, CourseSpec{})
	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		change := sl.Current().Interface().(recurrenceChange)
		checkDayOrder(sl, change.J0, change.JEnd)
	}, recurrenceChange{})

	translations := map[string]string{
		"recurrence": "{0} must start at 0 and list strictly ascending day offsets",
		"day_order":  "{0} must not be before j_0",
	}
	for tag, text := range translations {
		tag, text := tag, text
		if err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		}); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s translation: %w", tag, err)
		}
	}

	return validate, trans, nil
}

func checkDayOrder(sl validator.StructLevel, j0, jEnd day.Day) {
	if j0.IsZero() || jEnd.IsZero() {
		return
	}
	if jEnd.Before(j0) {
		sl.ReportError(jEnd.String(), "j_end", "JEnd", "day_order", "")
	}
}

func (r *Root) validate(value interface{}) error {
	if err := r.validator.Struct(value); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("validator.Struct() > %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(r.translator))
		}
		return fmt.Errorf("%w: %s", ErrInvalidCourse, strings.Join(errorMsgs, ", "))
	}
	return nil
}
