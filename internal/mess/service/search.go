package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kampuskart/internal/mess/hours"
	"kampuskart/internal/mess/model"
)

// Search returns the messes matching every given filter, ordered by id.
// isOpen is evaluated against the current campus time, never the stored flag.
func (s *Service) Search(ctx context.Context, filter model.SearchFilter) ([]model.MessSummary, error) {
	filter.Type = strings.ToLower(strings.TrimSpace(filter.Type))
	if filter.Type != "" && !model.AllowedKinds[filter.Type] {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidFilter, filter.Type)
	}
	if filter.MinRating < 0 || filter.MinRating > model.MaxRatingValue {
		return nil, fmt.Errorf("%w: minRating must be between 0 and 5", ErrInvalidFilter)
	}

	messes, err := s.Repo.FindMesses(ctx, model.MessFilter{
		Type:      filter.Type,
		MinRating: filter.MinRating,
	})
	if err != nil {
		return nil, storeErr(err)
	}

	now := s.now()
	results := make([]model.MessSummary, 0, len(messes))
	for _, m := range messes {
		// The store already filters, but in-memory checks keep the contract
		// independent of how a backend treats its indexes.
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if m.AverageRating < filter.MinRating {
			continue
		}
		summary := toSummary(m, now)
		if filter.IsOpen && !summary.IsOpen {
			continue
		}
		results = append(results, summary)
	}
	return results, nil
}

// GetMess returns the public view of a mess. Subscriptions are private and stripped.
func (s *Service) GetMess(ctx context.Context, id string) (*model.Mess, error) {
	m, err := s.Repo.GetMess(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, storeErr(err)
	}
	m.Subscriptions = nil
	m.IsOpen = hours.IsCurrentlyOpen(m, s.now())
	return m, nil
}

// CheckOpen evaluates the operating hours of a mess at the given instant.
// A zero instant means now.
func (s *Service) CheckOpen(ctx context.Context, id string, at time.Time) (*model.OpenStatus, error) {
	m, err := s.Repo.GetMess(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, storeErr(err)
	}

	if at.IsZero() {
		at = s.now()
	} else {
		at = at.In(s.Location)
	}

	window, open := hours.CurrentWindow(m.OperatingHours, at)
	return &model.OpenStatus{
		MessID:        m.ID,
		IsOpen:        open,
		CurrentWindow: window,
		At:            at,
	}, nil
}

func toSummary(m *model.Mess, now time.Time) model.MessSummary {
	plans := m.SubscriptionPlans
	if plans == nil {
		plans = []model.SubscriptionPlan{}
	}
	return model.MessSummary{
		ID:                m.ID,
		Name:              m.Name,
		Type:              m.Type,
		Location:          m.Location,
		OperatingHours:    m.OperatingHours,
		IsOpen:            hours.IsCurrentlyOpen(m, now),
		AverageRating:     m.AverageRating,
		RatingCount:       len(m.Ratings),
		SubscriptionPlans: plans,
	}
}
