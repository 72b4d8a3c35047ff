package model

type SetSubscriptionReq struct {
	MealType string `json:"mealType"`
	IsActive *bool  `json:"isActive" validate:"required"`
}

func (r *SetSubscriptionReq) Validate() error {
	r.MealType = NormalizeMealType(r.MealType)
	if !SubscriptionMealTypes[r.MealType] {
		return &ErrorDetail{Code: "invalid_meal_type", Message: "mealType must be Lunch or Dinner"}
	}
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}
