package model

// Mess kinds
const (
	KindMess    = "mess"
	KindCanteen = "canteen"
)

// Meal types. Menu sections may use any of them, subscriptions and
// subscription plans only Lunch and Dinner.
const (
	MealBreakfast  = "Breakfast"
	MealLunch      = "Lunch"
	MealEveningTea = "EveningTea"
	MealDinner     = "Dinner"
)

var AllowedKinds = map[string]bool{
	KindMess:    true,
	KindCanteen: true,
}

var MenuMealTypes = map[string]bool{
	MealBreakfast:  true,
	MealLunch:      true,
	MealEveningTea: true,
	MealDinner:     true,
}

var SubscriptionMealTypes = map[string]bool{
	MealLunch:  true,
	MealDinner: true,
}

var DaysOfWeek = map[string]bool{
	"Monday":    true,
	"Tuesday":   true,
	"Wednesday": true,
	"Thursday":  true,
	"Friday":    true,
	"Saturday":  true,
	"Sunday":    true,
}

// Rating bounds
const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

// Activity operations
const (
	OpRatingSubmitted = "rating_submitted"
	OpSubscriptionSet = "subscription_set"
	OpMealRedeemed    = "meal_redeemed"
	OpMealsCredited   = "meals_credited"
	OpMessCreated     = "mess_created"
	OpMessUpdated     = "mess_updated"
	OpMessDeleted     = "mess_deleted"
)

const RoleAdmin = "admin"

// MaxCreditPerRequest caps a single admin top-up of a subscription.
const MaxCreditPerRequest = 1000
