package model

import "time"

// MealWindow is one named serving period. Price is only meaningful for lunch and dinner.
type MealWindow struct {
	Open  string   `json:"open" bson:"open"`
	Close string   `json:"close" bson:"close"`
	Price *float64 `json:"price,omitempty" bson:"price,omitempty"`
}

// OperatingHours holds up to four windows; a nil window means the meal is not served.
type OperatingHours struct {
	Breakfast  *MealWindow `json:"breakfast,omitempty" bson:"breakfast,omitempty"`
	Lunch      *MealWindow `json:"lunch,omitempty" bson:"lunch,omitempty"`
	EveningTea *MealWindow `json:"eveningTea,omitempty" bson:"eveningTea,omitempty"`
	Dinner     *MealWindow `json:"dinner,omitempty" bson:"dinner,omitempty"`
}

type MenuItem struct {
	Name         string `json:"name" bson:"name" validate:"required,max=100"`
	IsMainCourse bool   `json:"isMainCourse,omitempty" bson:"isMainCourse,omitempty"`
}

type MenuSection struct {
	MealType  string     `json:"mealType" bson:"mealType" validate:"required"`
	DayOfWeek string     `json:"dayOfWeek" bson:"dayOfWeek" validate:"required"`
	Items     []MenuItem `json:"items" bson:"items" validate:"dive"`
}

type SubscriptionPlan struct {
	MealType     string  `json:"mealType" bson:"mealType" validate:"required,oneof=Lunch Dinner"`
	PricePerMeal float64 `json:"pricePerMeal" bson:"pricePerMeal" validate:"gte=0"`
}

type MessRating struct {
	UserID    string    `json:"userId" bson:"userId"`
	Rating    int       `json:"rating" bson:"rating"`
	Review    string    `json:"review,omitempty" bson:"review,omitempty"`
	Photos    []string  `json:"photos,omitempty" bson:"photos,omitempty"`
	Tags      []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type Subscription struct {
	UserID    string    `json:"userId" bson:"userId"`
	MealType  string    `json:"mealType" bson:"mealType"`
	IsActive  bool      `json:"isActive" bson:"isActive"`
	MealCount int       `json:"mealCount" bson:"mealCount"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Mess is the aggregate root. Ratings and subscriptions are embedded and share
// the aggregate's Version for optimistic concurrency.
type Mess struct {
	ID                string             `json:"_id" bson:"_id"`
	Name              string             `json:"name" bson:"name"`
	Type              string             `json:"type" bson:"type"`
	Location          string             `json:"location" bson:"location"`
	OperatingHours    OperatingHours     `json:"operatingHours" bson:"operatingHours"`
	IsOpen            bool               `json:"isOpen" bson:"isOpen"`
	Menu              []MenuSection      `json:"menu" bson:"menu"`
	SubscriptionPlans []SubscriptionPlan `json:"subscriptionPlans" bson:"subscriptionPlans"`
	Ratings           []MessRating       `json:"ratings" bson:"ratings"`
	AverageRating     float64            `json:"averageRating" bson:"averageRating"`
	Subscriptions     []Subscription     `json:"subscriptions,omitempty" bson:"subscriptions"`
	Version           int64              `json:"-" bson:"version"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// MessSummary is the search result shape.
type MessSummary struct {
	ID                string             `json:"_id"`
	Name              string             `json:"name"`
	Type              string             `json:"type"`
	Location          string             `json:"location"`
	OperatingHours    OperatingHours     `json:"operatingHours"`
	IsOpen            bool               `json:"isOpen"`
	AverageRating     float64            `json:"averageRating"`
	RatingCount       int                `json:"ratingCount"`
	SubscriptionPlans []SubscriptionPlan `json:"subscriptionPlans"`
}

// MessFilter is the store-level query. MinRating is applied against the stored averageRating.
type MessFilter struct {
	Type      string
	MinRating float64
}

// OpenStatus answers whether a mess is serving at a given instant.
type OpenStatus struct {
	MessID        string    `json:"messId"`
	IsOpen        bool      `json:"isOpen"`
	CurrentWindow string    `json:"currentWindow,omitempty"`
	At            time.Time `json:"at"`
}

// ErrorResponse for consistent error handling
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *ErrorDetail) Error() string {
	return e.Code + ": " + e.Message
}
