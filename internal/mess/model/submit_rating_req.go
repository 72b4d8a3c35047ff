package model

import (
	"math"
	"strings"
)

type SubmitRatingReq struct {
	Rating float64  `json:"rating"`
	Review string   `json:"review" validate:"omitempty,max=2000"`
	Photos []string `json:"photos" validate:"omitempty,max=10,dive,required,max=500"`
	Tags   []string `json:"tags" validate:"omitempty,max=10,dive,required,max=50"`
}

// RatingInput is what the catalog receives once the request has been validated.
type RatingInput struct {
	Rating int
	Review string
	Photos []string
	Tags   []string
}

func (r *SubmitRatingReq) Validate() error {
	r.Review = strings.TrimSpace(r.Review)
	for i, t := range r.Tags {
		r.Tags[i] = strings.ToLower(strings.TrimSpace(t))
	}
	for i, p := range r.Photos {
		r.Photos[i] = strings.TrimSpace(p)
	}

	if r.Rating != math.Trunc(r.Rating) || r.Rating < MinRatingValue || r.Rating > MaxRatingValue {
		return &ErrorDetail{Code: "invalid_rating", Message: "rating must be an integer between 1 and 5"}
	}

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

func (r *SubmitRatingReq) Input() RatingInput {
	return RatingInput{
		Rating: int(r.Rating),
		Review: r.Review,
		Photos: r.Photos,
		Tags:   r.Tags,
	}
}
