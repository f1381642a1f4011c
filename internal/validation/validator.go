// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

// Package validation validates request structs with go-playground/validator.
//
// The singleton validator reports fields by their json name and registers
// domain tags:
//
//   - activity: a known activity level or alias (nutrition.ParseActivityLevel)
//   - feedback_action: ACCEPTED, REJECTED or SAVED
//   - feedback_reason: a models.FeedbackReason such as dont_like_taste
//   - meal_type: BREAKFAST, LUNCH, DINNER or SNACK
//   - calendar_date: a YYYY-MM-DD date
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/lunara/internal/models"
	"github.com/tomtom215/lunara/internal/nutrition"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// DateLayout is the calendar date format accepted by the API.
const DateLayout = "2006-01-02"

// ValidationError is a single failed field.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Error returns the human-readable message.
func (e *ValidationError) Error() string {
	return e.Message
}

// RequestValidationError collects every failed field of a struct.
type RequestValidationError struct {
	Fields []ValidationError
}

// Error joins the field messages.
func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve.Fields))
	for i := range ve.Fields {
		msgs[i] = ve.Fields[i].Message
	}
	return strings.Join(msgs, "; ")
}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		mustRegister(v, "activity", func(fl validator.FieldLevel) bool {
			_, err := nutrition.ParseActivityLevel(fl.Field().String())
			return err == nil
		})
		mustRegister(v, "feedback_action", func(fl validator.FieldLevel) bool {
			return models.FeedbackAction(fl.Field().String()).Valid()
		})
		mustRegister(v, "feedback_reason", func(fl validator.FieldLevel) bool {
			return models.FeedbackReason(fl.Field().String()).Valid()
		})
		mustRegister(v, "meal_type", func(fl validator.FieldLevel) bool {
			switch models.MealType(fl.Field().String()) {
			case models.MealBreakfast, models.MealLunch, models.MealDinner, models.MealSnack:
				return true
			}
			return false
		})
		mustRegister(v, "calendar_date", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(DateLayout, fl.Field().String())
			return err == nil
		})

		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// ValidateStruct validates s, returning nil or a *RequestValidationError.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{Fields: []ValidationError{{Message: err.Error()}}}
	}

	out := &RequestValidationError{Fields: make([]ValidationError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: formatMessage(fe),
		})
	}
	return out
}

func formatMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "activity":
		return fmt.Sprintf("%s must be a known activity level", field)
	case "feedback_action":
		return fmt.Sprintf("%s must be ACCEPTED, REJECTED or SAVED", field)
	case "feedback_reason":
		return fmt.Sprintf("%s must be a known feedback reason", field)
	case "meal_type":
		return fmt.Sprintf("%s must be BREAKFAST, LUNCH, DINNER or SNACK", field)
	case "calendar_date":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
