package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"kampuskart/internal/mess/model"

	"github.com/google/uuid"
)

// MemoryRepository keeps messes and activity in process memory. It honors the
// same contract as MongoRepository, including optimistic versioning, and hands
// out copies so callers never share state with the store.
type MemoryRepository struct {
	mu       sync.RWMutex
	messes   map[string]*model.Mess
	activity []*model.MessActivity
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		messes: make(map[string]*model.Mess),
	}
}

func (r *MemoryRepository) EnsureIndexes(ctx context.Context) error { return nil }

func (r *MemoryRepository) EnsureActivityIndexes(ctx context.Context) error { return nil }

func (r *MemoryRepository) CreateMess(ctx context.Context, mess *model.Mess) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messes[mess.ID]; ok {
		return ErrDuplicate
	}
	for _, m := range r.messes {
		if m.Type == mess.Type && m.Name == mess.Name {
			return ErrDuplicate
		}
	}

	now := time.Now()
	if mess.CreatedAt.IsZero() {
		mess.CreatedAt = now
	}
	mess.UpdatedAt = now
	mess.Version = 1

	r.messes[mess.ID] = cloneMess(mess)
	return nil
}

func (r *MemoryRepository) GetMess(ctx context.Context, id string) (*model.Mess, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.messes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneMess(m), nil
}

func (r *MemoryRepository) FindMesses(ctx context.Context, filter model.MessFilter) ([]*model.Mess, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := []*model.Mess{}
	for _, m := range r.messes {
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.MinRating > 0 && m.AverageRating < filter.MinRating {
			continue
		}
		c := cloneMess(m)
		c.Subscriptions = nil
		results = append(results, c)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (r *MemoryRepository) ReplaceMess(ctx context.Context, mess *model.Mess) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.messes[mess.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != mess.Version {
		return ErrVersionConflict
	}
	for id, m := range r.messes {
		if id != mess.ID && m.Type == mess.Type && m.Name == mess.Name {
			return ErrDuplicate
		}
	}

	mess.Version++
	mess.UpdatedAt = time.Now()

	next := cloneMess(mess)
	next.IsOpen = stored.IsOpen
	next.CreatedAt = stored.CreatedAt
	r.messes[mess.ID] = next
	return nil
}

func (r *MemoryRepository) DeleteMess(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messes[id]; !ok {
		return ErrNotFound
	}
	delete(r.messes, id)
	return nil
}

func (r *MemoryRepository) CountMesses(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.messes)), nil
}

func (r *MemoryRepository) SetOpenFlags(ctx context.Context, flags map[string]bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, open := range flags {
		if m, ok := r.messes[id]; ok {
			m.IsOpen = open
		}
	}
	return nil
}

func (r *MemoryRepository) CreateActivity(ctx context.Context, activity *model.MessActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	for _, a := range r.activity {
		if a.ID == activity.ID {
			return nil
		}
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	c := *activity
	r.activity = append(r.activity, &c)
	return nil
}

func (r *MemoryRepository) FindActivity(ctx context.Context, req model.GetActivityReq) ([]*model.MessActivity, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []*model.MessActivity{}
	for _, a := range r.activity {
		if a.MessID == req.MessID {
			c := *a
			matched = append(matched, &c)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (req.Page - 1) * req.Size
	if start >= len(matched) {
		return []*model.MessActivity{}, total, nil
	}
	end := start + req.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func cloneMess(m *model.Mess) *model.Mess {
	c := *m
	c.OperatingHours = cloneHours(m.OperatingHours)

	if m.Menu != nil {
		c.Menu = make([]model.MenuSection, len(m.Menu))
		for i, s := range m.Menu {
			s.Items = append([]model.MenuItem(nil), s.Items...)
			c.Menu[i] = s
		}
	}
	if m.SubscriptionPlans != nil {
		c.SubscriptionPlans = append([]model.SubscriptionPlan{}, m.SubscriptionPlans...)
	}
	if m.Ratings != nil {
		c.Ratings = make([]model.MessRating, len(m.Ratings))
		for i, rt := range m.Ratings {
			rt.Photos = append([]string(nil), rt.Photos...)
			rt.Tags = append([]string(nil), rt.Tags...)
			c.Ratings[i] = rt
		}
	}
	if m.Subscriptions != nil {
		c.Subscriptions = append([]model.Subscription{}, m.Subscriptions...)
	}
	return &c
}

func cloneHours(h model.OperatingHours) model.OperatingHours {
	cp := func(w *model.MealWindow) *model.MealWindow {
		if w == nil {
			return nil
		}
		c := *w
		if w.Price != nil {
			p := *w.Price
			c.Price = &p
		}
		return &c
	}
	return model.OperatingHours{
		Breakfast:  cp(h.Breakfast),
		Lunch:      cp(h.Lunch),
		EveningTea: cp(h.EveningTea),
		Dinner:     cp(h.Dinner),
	}
}
