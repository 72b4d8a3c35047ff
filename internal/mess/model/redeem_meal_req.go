package model

type RedeemMealReq struct {
	MealType string `json:"mealType"`
}

func (r *RedeemMealReq) Validate() error {
	r.MealType = NormalizeMealType(r.MealType)
	if !SubscriptionMealTypes[r.MealType] {
		return &ErrorDetail{Code: "invalid_meal_type", Message: "mealType must be Lunch or Dinner"}
	}
	return nil
}
