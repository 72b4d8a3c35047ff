package service

import (
	"context"
	"fmt"
	"strings"

	"kampuskart/internal/mess/hours"
	"kampuskart/internal/mess/model"

	"github.com/google/uuid"
)

// buildDescriptor validates the admin payload beyond struct tags and returns
// it with canonical times.
func buildDescriptor(req model.UpsertMessReq) (model.UpsertMessReq, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if req.Name == "" {
		return req, fmt.Errorf("%w: name is required", ErrInvalidMess)
	}
	if !model.AllowedKinds[req.Type] {
		return req, fmt.Errorf("%w: unknown type %q", ErrInvalidMess, req.Type)
	}
	if err := hours.Validate(req.OperatingHours); err != nil {
		return req, fmt.Errorf("%w: %v", ErrInvalidMess, err)
	}
	req.OperatingHours = hours.Normalize(req.OperatingHours)

	sections := make(map[string]bool, len(req.Menu))
	for i := range req.Menu {
		req.Menu[i].MealType = model.NormalizeMealType(req.Menu[i].MealType)
		req.Menu[i].DayOfWeek = model.NormalizeDay(req.Menu[i].DayOfWeek)
	}
	for _, s := range req.Menu {
		if !model.MenuMealTypes[s.MealType] || !model.DaysOfWeek[s.DayOfWeek] {
			return req, fmt.Errorf("%w: bad menu section %s/%s", ErrInvalidMess, s.MealType, s.DayOfWeek)
		}
		key := s.MealType + "/" + s.DayOfWeek
		if sections[key] {
			return req, fmt.Errorf("%w: duplicate menu section %s", ErrInvalidMess, key)
		}
		sections[key] = true
	}

	plans := make(map[string]bool, len(req.SubscriptionPlans))
	for i := range req.SubscriptionPlans {
		req.SubscriptionPlans[i].MealType = model.NormalizeMealType(req.SubscriptionPlans[i].MealType)
	}
	for _, p := range req.SubscriptionPlans {
		if !model.SubscriptionMealTypes[p.MealType] {
			return req, fmt.Errorf("%w: plan mealType must be Lunch or Dinner", ErrInvalidMess)
		}
		if p.PricePerMeal < 0 {
			return req, fmt.Errorf("%w: pricePerMeal must not be negative", ErrInvalidMess)
		}
		if plans[p.MealType] {
			return req, fmt.Errorf("%w: duplicate plan for %s", ErrInvalidMess, p.MealType)
		}
		plans[p.MealType] = true
	}

	if req.Menu == nil {
		req.Menu = []model.MenuSection{}
	}
	if req.SubscriptionPlans == nil {
		req.SubscriptionPlans = []model.SubscriptionPlan{}
	}
	return req, nil
}

func (s *Service) CreateMess(ctx context.Context, callerID string, req model.UpsertMessReq) (*model.Mess, error) {
	req, err := buildDescriptor(req)
	if err != nil {
		return nil, err
	}

	m := &model.Mess{
		ID:                uuid.NewString(),
		Name:              req.Name,
		Type:              req.Type,
		Location:          strings.TrimSpace(req.Location),
		OperatingHours:    req.OperatingHours,
		Menu:              req.Menu,
		SubscriptionPlans: req.SubscriptionPlans,
		Ratings:           []model.MessRating{},
		Subscriptions:     []model.Subscription{},
		CreatedAt:         s.Now().UTC(),
	}
	m.IsOpen = hours.IsCurrentlyOpen(m, s.now())

	if err := s.Repo.CreateMess(ctx, m); err != nil {
		return nil, storeErr(err)
	}

	s.recordActivity(&model.MessActivity{
		Operation: model.OpMessCreated,
		MessID:    m.ID,
		CallerID:  callerID,
	})

	m.Subscriptions = nil
	return m, nil
}

// UpdateMess replaces the descriptive fields. Ratings and subscriptions are kept.
func (s *Service) UpdateMess(ctx context.Context, callerID, id string, req model.UpsertMessReq) (*model.Mess, error) {
	req, err := buildDescriptor(req)
	if err != nil {
		return nil, err
	}

	m, err := s.mutate(ctx, strings.TrimSpace(id), func(m *model.Mess) error {
		m.Name = req.Name
		m.Type = req.Type
		m.Location = strings.TrimSpace(req.Location)
		m.OperatingHours = req.OperatingHours
		m.Menu = req.Menu
		m.SubscriptionPlans = req.SubscriptionPlans
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordActivity(&model.MessActivity{
		Operation: model.OpMessUpdated,
		MessID:    m.ID,
		CallerID:  callerID,
	})

	m.Subscriptions = nil
	m.IsOpen = hours.IsCurrentlyOpen(m, s.now())
	return m, nil
}

func (s *Service) DeleteMess(ctx context.Context, callerID, id string) error {
	id = strings.TrimSpace(id)

	unlock := s.locks.Lock(id)
	err := s.Repo.DeleteMess(ctx, id)
	unlock()
	if err != nil {
		return storeErr(err)
	}

	s.recordActivity(&model.MessActivity{
		Operation: model.OpMessDeleted,
		MessID:    id,
		CallerID:  callerID,
	})
	return nil
}
