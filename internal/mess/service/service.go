package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kampuskart/internal/mess/model"
	"kampuskart/internal/mess/repository"
)

var (
	ErrInvalidFilter          = errors.New("invalid filter")
	ErrNotFound               = errors.New("mess not found")
	ErrInvalidRating          = errors.New("rating must be an integer between 1 and 5")
	ErrInvalidMealType        = errors.New("mealType must be Lunch or Dinner")
	ErrNoActiveSubscription   = errors.New("no active subscription")
	ErrInsufficientMeals      = errors.New("no meals left on subscription")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrInvalidMess            = errors.New("invalid mess")
	ErrConcurrentUpdate       = errors.New("concurrent update, retry later")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrBadRequest             = errors.New("bad request")
)

// maxWriteAttempts bounds the re-read/reapply loop on version conflicts.
const maxWriteAttempts = 3

type MessCatalog interface {
	Search(ctx context.Context, filter model.SearchFilter) ([]model.MessSummary, error)
	GetMess(ctx context.Context, id string) (*model.Mess, error)
	CheckOpen(ctx context.Context, id string, at time.Time) (*model.OpenStatus, error)
	SubmitRating(ctx context.Context, messID, userID string, input model.RatingInput) (*model.MessSummary, error)
	SetSubscription(ctx context.Context, messID, userID, mealType string, isActive bool) (*model.Subscription, error)
	RedeemMeal(ctx context.Context, messID, userID, mealType string) (*model.Subscription, error)
	ListMySubscriptions(ctx context.Context, messID, userID string) ([]model.Subscription, error)
	CreateMess(ctx context.Context, callerID string, req model.UpsertMessReq) (*model.Mess, error)
	UpdateMess(ctx context.Context, callerID, id string, req model.UpsertMessReq) (*model.Mess, error)
	DeleteMess(ctx context.Context, callerID, id string) error
	CreditMeals(ctx context.Context, callerID, messID string, req model.CreditMealsReq) (*model.Subscription, error)
	ListActivity(ctx context.Context, req model.GetActivityReq) (*model.GetActivityResp, error)
}

// EventPublisher ships activity records to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, activity *model.MessActivity) error
}

type Service struct {
	Repo         repository.MessRepository
	ActivityRepo repository.ActivityRepository
	Publisher    EventPublisher
	Location     *time.Location
	Now          func() time.Time

	locks *keyedMutex
}

func NewService(repo repository.MessRepository, activityRepo repository.ActivityRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		Repo:         repo,
		ActivityRepo: activityRepo,
		Location:     loc,
		Now:          time.Now,
		locks:        newKeyedMutex(),
	}
}

// now returns the current instant on the campus wall clock.
func (s *Service) now() time.Time {
	return s.Now().In(s.Location)
}

// storeErr maps repository failures onto the service taxonomy.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: a mess with this name already exists", ErrInvalidMess)
	default:
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
}

// mutate loads the aggregate, applies fn and writes it back under the
// per-mess lock. Version conflicts from other processes are retried with a
// fresh read; fn must therefore be safe to run more than once.
func (s *Service) mutate(ctx context.Context, id string, fn func(m *model.Mess) error) (*model.Mess, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		m, err := s.Repo.GetMess(ctx, id)
		if err != nil {
			return nil, storeErr(err)
		}
		if err := fn(m); err != nil {
			return nil, err
		}

		err = s.Repo.ReplaceMess(ctx, m)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, storeErr(err)
		}
	}
	return nil, ErrConcurrentUpdate
}
