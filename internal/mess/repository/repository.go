package repository

import (
	"context"
	"errors"

	"kampuskart/internal/mess/model"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("duplicate record")
	ErrVersionConflict = errors.New("version conflict")
)

type MessRepository interface {
	// Initialize Indexes
	EnsureIndexes(ctx context.Context) error
	// Insert a new mess; ErrDuplicate when the id is taken
	CreateMess(ctx context.Context, mess *model.Mess) error
	// Load the full aggregate; ErrNotFound when missing
	GetMess(ctx context.Context, id string) (*model.Mess, error)
	// Query by kind and stored averageRating, ordered by id. Subscriptions are not loaded.
	FindMesses(ctx context.Context, filter model.MessFilter) ([]*model.Mess, error)
	// Write the aggregate back if its Version still matches, then bump Version.
	// The stored isOpen flag is left untouched.
	ReplaceMess(ctx context.Context, mess *model.Mess) error
	// Hard delete
	DeleteMess(ctx context.Context, id string) error
	// Count all messes
	CountMesses(ctx context.Context) (int64, error)
	// Overwrite the stored isOpen flag of the given messes
	SetOpenFlags(ctx context.Context, flags map[string]bool) error
}

// ActivityRepository stores the append-only audit trail.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity *model.MessActivity) error
	FindActivity(ctx context.Context, req model.GetActivityReq) ([]*model.MessActivity, int64, error)
	EnsureActivityIndexes(ctx context.Context) error
}

// Store is implemented by both backends and serves messes and activity alike.
type Store interface {
	MessRepository
	ActivityRepository
}

var (
	_ Store = (*MongoRepository)(nil)
	_ Store = (*MemoryRepository)(nil)
)
