// Package seed ships the demo catalog used by local and staging deployments.
package seed

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"kampuskart/internal/mess/hours"
	"kampuskart/internal/mess/model"
	"kampuskart/internal/mess/repository"
	"kampuskart/internal/mess/service"
)

//go:embed data/*.json
var dataFS embed.FS

// Load reads every embedded mess, normalizes its hours and derives the
// average rating. Results are ordered by id.
func Load() ([]*model.Mess, error) {
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("failed to read seed directory: %w", err)
	}

	messes := make([]*model.Mess, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := dataFS.ReadFile("data/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file %s: %w", entry.Name(), err)
		}

		var m model.Mess
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse seed file %s: %w", entry.Name(), err)
		}
		if err := prepare(&m); err != nil {
			return nil, fmt.Errorf("seed file %s: %w", entry.Name(), err)
		}
		messes = append(messes, &m)
	}

	sort.Slice(messes, func(i, j int) bool { return messes[i].ID < messes[j].ID })
	return messes, nil
}

func prepare(m *model.Mess) error {
	if m.ID == "" || m.Name == "" || !model.AllowedKinds[m.Type] {
		return fmt.Errorf("id, name and a known type are required")
	}
	if err := hours.Validate(m.OperatingHours); err != nil {
		return err
	}
	m.OperatingHours = hours.Normalize(m.OperatingHours)

	now := time.Now().UTC()
	raters := make(map[string]bool, len(m.Ratings))
	for i := range m.Ratings {
		r := &m.Ratings[i]
		if r.UserID == "" {
			return fmt.Errorf("rating %d: userId is required", i)
		}
		if raters[r.UserID] {
			return fmt.Errorf("rating %d: user %q already rated this mess", i, r.UserID)
		}
		raters[r.UserID] = true
		if r.Rating < model.MinRatingValue || r.Rating > model.MaxRatingValue {
			return fmt.Errorf("rating %d: value %d out of range", i, r.Rating)
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
	}
	if m.Ratings == nil {
		m.Ratings = []model.MessRating{}
	}
	if m.Menu == nil {
		m.Menu = []model.MenuSection{}
	}
	if m.SubscriptionPlans == nil {
		m.SubscriptionPlans = []model.SubscriptionPlan{}
	}
	m.Subscriptions = []model.Subscription{}
	m.AverageRating = service.AverageRating(m.Ratings)
	m.IsOpen = false
	return nil
}

// Apply inserts the demo catalog into an empty store. It returns the number
// of messes inserted; a non-empty store is left untouched.
func Apply(ctx context.Context, repo repository.MessRepository) (int, error) {
	count, err := repo.CountMesses(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	messes, err := Load()
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, m := range messes {
		if err := repo.CreateMess(ctx, m); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
