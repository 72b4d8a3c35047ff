package model

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func GetValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// FormatValidationError converts validator errors to ErrorDetail.
// Only the first field error is reported.
func FormatValidationError(err error) *ErrorDetail {
	if err == nil {
		return nil
	}

	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		e := validationErrors[0]
		return &ErrorDetail{
			Code:    "bad_request",
			Message: "Field validation for '" + e.Field() + "' failed on the '" + e.Tag() + "' tag",
		}
	}

	return &ErrorDetail{
		Code:    "bad_request",
		Message: err.Error(),
	}
}

// NormalizeMealType maps loose client spellings ("lunch", "evening_tea") to the
// canonical meal type. Unknown values are returned trimmed but otherwise unchanged.
func NormalizeMealType(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	switch key {
	case "breakfast":
		return MealBreakfast
	case "lunch":
		return MealLunch
	case "eveningtea", "tea", "snacks":
		return MealEveningTea
	case "dinner":
		return MealDinner
	}
	return strings.TrimSpace(s)
}

// NormalizeDay maps "monday"/"MON" style input to the canonical day name.
func NormalizeDay(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	for day := range DaysOfWeek {
		d := strings.ToLower(day)
		if key == d || (len(key) == 3 && strings.HasPrefix(d, key)) {
			return day
		}
	}
	return strings.TrimSpace(s)
}
