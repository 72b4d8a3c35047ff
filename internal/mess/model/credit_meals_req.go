package model

import "strings"

// CreditMealsReq tops up a user's meal counter (admin dashboard).
type CreditMealsReq struct {
	UserID   string `json:"userId" validate:"required,max=100"`
	MealType string `json:"mealType"`
	Meals    int    `json:"meals" validate:"required,min=1,max=1000"`
}

func (r *CreditMealsReq) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	r.MealType = NormalizeMealType(r.MealType)

	if !SubscriptionMealTypes[r.MealType] {
		return &ErrorDetail{Code: "invalid_meal_type", Message: "mealType must be Lunch or Dinner"}
	}
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}
