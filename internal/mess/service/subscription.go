package service

import (
	"context"
	"fmt"
	"strings"

	"kampuskart/internal/mess/model"
)

func normalizeSubscriptionMeal(mealType string) (string, error) {
	mealType = model.NormalizeMealType(mealType)
	if !model.SubscriptionMealTypes[mealType] {
		return "", ErrInvalidMealType
	}
	return mealType, nil
}

func findSubscription(m *model.Mess, userID, mealType string) int {
	for i, sub := range m.Subscriptions {
		if sub.UserID == userID && sub.MealType == mealType {
			return i
		}
	}
	return -1
}

// SetSubscription creates or toggles the caller's subscription. Toggling keeps
// the remaining meal count.
func (s *Service) SetSubscription(ctx context.Context, messID, userID, mealType string, isActive bool) (*model.Subscription, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUnauthorized
	}
	mealType, err := normalizeSubscriptionMeal(mealType)
	if err != nil {
		return nil, err
	}

	var result model.Subscription
	m, err := s.mutate(ctx, strings.TrimSpace(messID), func(m *model.Mess) error {
		now := s.Now().UTC()
		if i := findSubscription(m, userID, mealType); i >= 0 {
			m.Subscriptions[i].IsActive = isActive
			m.Subscriptions[i].UpdatedAt = now
			result = m.Subscriptions[i]
			return nil
		}
		result = model.Subscription{
			UserID:    userID,
			MealType:  mealType,
			IsActive:  isActive,
			MealCount: 0,
			UpdatedAt: now,
		}
		m.Subscriptions = append(m.Subscriptions, result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordActivity(&model.MessActivity{
		Operation: model.OpSubscriptionSet,
		MessID:    m.ID,
		UserID:    userID,
		CallerID:  userID,
		MealType:  mealType,
		IsActive:  &isActive,
	})
	return &result, nil
}

// RedeemMeal consumes one meal from an active subscription.
func (s *Service) RedeemMeal(ctx context.Context, messID, userID, mealType string) (*model.Subscription, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUnauthorized
	}
	mealType, err := normalizeSubscriptionMeal(mealType)
	if err != nil {
		return nil, err
	}

	var result model.Subscription
	m, err := s.mutate(ctx, strings.TrimSpace(messID), func(m *model.Mess) error {
		i := findSubscription(m, userID, mealType)
		if i < 0 || !m.Subscriptions[i].IsActive {
			return ErrNoActiveSubscription
		}
		if m.Subscriptions[i].MealCount <= 0 {
			return ErrInsufficientMeals
		}
		m.Subscriptions[i].MealCount--
		m.Subscriptions[i].UpdatedAt = s.Now().UTC()
		result = m.Subscriptions[i]
		return nil
	})
	if err != nil {
		return nil, err
	}

	remaining := result.MealCount
	s.recordActivity(&model.MessActivity{
		Operation: model.OpMealRedeemed,
		MessID:    m.ID,
		UserID:    userID,
		CallerID:  userID,
		MealType:  mealType,
		MealCount: &remaining,
	})
	return &result, nil
}

// CreditMeals tops up a user's meal count. A missing subscription is created
// inactive so the credit is not lost.
func (s *Service) CreditMeals(ctx context.Context, callerID, messID string, req model.CreditMealsReq) (*model.Subscription, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrBadRequest)
	}
	mealType, err := normalizeSubscriptionMeal(req.MealType)
	if err != nil {
		return nil, err
	}
	if req.Meals < 1 || req.Meals > model.MaxCreditPerRequest {
		return nil, fmt.Errorf("%w: meals must be between 1 and %d", ErrBadRequest, model.MaxCreditPerRequest)
	}

	var result model.Subscription
	m, err := s.mutate(ctx, strings.TrimSpace(messID), func(m *model.Mess) error {
		now := s.Now().UTC()
		i := findSubscription(m, userID, mealType)
		if i < 0 {
			m.Subscriptions = append(m.Subscriptions, model.Subscription{
				UserID:   userID,
				MealType: mealType,
			})
			i = len(m.Subscriptions) - 1
		}
		m.Subscriptions[i].MealCount += req.Meals
		m.Subscriptions[i].UpdatedAt = now
		result = m.Subscriptions[i]
		return nil
	})
	if err != nil {
		return nil, err
	}

	total := result.MealCount
	s.recordActivity(&model.MessActivity{
		Operation: model.OpMealsCredited,
		MessID:    m.ID,
		UserID:    userID,
		CallerID:  callerID,
		MealType:  mealType,
		MealCount: &total,
	})
	return &result, nil
}

// ListMySubscriptions returns the caller's subscriptions at one mess.
func (s *Service) ListMySubscriptions(ctx context.Context, messID, userID string) ([]model.Subscription, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUnauthorized
	}
	m, err := s.Repo.GetMess(ctx, strings.TrimSpace(messID))
	if err != nil {
		return nil, storeErr(err)
	}

	subs := []model.Subscription{}
	for _, sub := range m.Subscriptions {
		if sub.UserID == userID {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}
