package model

import (
	"strconv"
	"strings"
)

// SearchMessReq mirrors the query string of GET /messes. Values are kept as
// strings so malformed input surfaces as invalid_filter instead of a bind error.
type SearchMessReq struct {
	IsOpen    string `query:"isOpen" validate:"omitempty,oneof=true false"`
	Type      string `query:"type" validate:"omitempty,oneof=mess canteen"`
	MinRating string `query:"minRating" validate:"omitempty,numeric"`
}

// SearchFilter is the parsed form consumed by the catalog.
type SearchFilter struct {
	IsOpen    bool    `json:"isOpen"`
	Type      string  `json:"type,omitempty"`
	MinRating float64 `json:"minRating"`
}

func (r *SearchMessReq) Validate() error {
	r.IsOpen = strings.ToLower(strings.TrimSpace(r.IsOpen))
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.MinRating = strings.TrimSpace(r.MinRating)

	if err := GetValidator().Struct(r); err != nil {
		e := FormatValidationError(err)
		e.Code = "invalid_filter"
		return e
	}
	return nil
}

// Filter converts a validated request. It must only be called after Validate.
func (r *SearchMessReq) Filter() (SearchFilter, error) {
	f := SearchFilter{
		IsOpen: r.IsOpen == "true",
		Type:   r.Type,
	}
	if r.MinRating != "" {
		v, err := strconv.ParseFloat(r.MinRating, 64)
		if err != nil {
			return f, &ErrorDetail{Code: "invalid_filter", Message: "minRating must be a number"}
		}
		f.MinRating = v
	}
	return f, nil
}
