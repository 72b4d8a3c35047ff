package model

import (
	"strings"
	"time"
)

// MessActivity is an append-only audit record. It doubles as the payload of
// the events published to the message broker.
type MessActivity struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Operation string    `bson:"operation" json:"operation"`
	MessID    string    `bson:"messId" json:"messId"`
	UserID    string    `bson:"userId,omitempty" json:"userId,omitempty"`
	CallerID  string    `bson:"callerId,omitempty" json:"callerId,omitempty"`
	MealType  string    `bson:"mealType,omitempty" json:"mealType,omitempty"`
	Rating    int       `bson:"rating,omitempty" json:"rating,omitempty"`
	IsActive  *bool     `bson:"isActive,omitempty" json:"isActive,omitempty"`
	MealCount *int      `bson:"mealCount,omitempty" json:"mealCount,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type GetActivityReq struct {
	MessID string `param:"id" validate:"required,max=100"`
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Size   int    `query:"size" validate:"omitempty,min=1,max=500"`
}

func (r *GetActivityReq) Validate() error {
	r.MessID = strings.TrimSpace(r.MessID)

	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size <= 0 {
		r.Size = 50
	}
	if r.Size > 500 {
		r.Size = 500
	}

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type GetActivityResp struct {
	Data       []*MessActivity `json:"data"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalCount int64           `json:"totalCount"`
}
