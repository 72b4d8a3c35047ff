package model

import "strings"

// UpsertMessReq is the admin payload for creating or replacing the descriptive
// part of a Mess. Ratings, subscriptions and isOpen are never accepted from clients.
type UpsertMessReq struct {
	Name              string             `json:"name" validate:"required,min=1,max=100"`
	Type              string             `json:"type" validate:"required,oneof=mess canteen"`
	Location          string             `json:"location" validate:"omitempty,max=200"`
	OperatingHours    OperatingHours     `json:"operatingHours"`
	Menu              []MenuSection      `json:"menu" validate:"omitempty,max=28,dive"`
	SubscriptionPlans []SubscriptionPlan `json:"subscriptionPlans" validate:"omitempty,max=2,dive"`
}

func (r *UpsertMessReq) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Location = strings.TrimSpace(r.Location)
	for i := range r.Menu {
		r.Menu[i].MealType = NormalizeMealType(r.Menu[i].MealType)
		r.Menu[i].DayOfWeek = NormalizeDay(r.Menu[i].DayOfWeek)
		for j := range r.Menu[i].Items {
			r.Menu[i].Items[j].Name = strings.TrimSpace(r.Menu[i].Items[j].Name)
		}
	}
	for i := range r.SubscriptionPlans {
		r.SubscriptionPlans[i].MealType = NormalizeMealType(r.SubscriptionPlans[i].MealType)
	}

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}

	for _, s := range r.Menu {
		if !MenuMealTypes[s.MealType] {
			return &ErrorDetail{Code: "bad_request", Message: "unknown menu mealType: " + s.MealType}
		}
		if !DaysOfWeek[s.DayOfWeek] {
			return &ErrorDetail{Code: "bad_request", Message: "unknown dayOfWeek: " + s.DayOfWeek}
		}
	}
	return nil
}
