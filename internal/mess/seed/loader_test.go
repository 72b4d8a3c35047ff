package seed

import (
	"context"
	"testing"

	"kampuskart/internal/mess/model"
	"kampuskart/internal/mess/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	messes, err := Load()
	require.NoError(t, err)
	require.Len(t, messes, 4)

	byID := map[string]*model.Mess{}
	for _, m := range messes {
		byID[m.ID] = m
		assert.True(t, model.AllowedKinds[m.Type], m.ID)
		assert.NotNil(t, m.Subscriptions)
	}

	central := byID["central-mess"]
	require.NotNil(t, central)
	assert.Equal(t, 4.0, central.AverageRating)
	assert.Equal(t, "07:30", central.OperatingHours.Breakfast.Open)
	assert.Equal(t, "21:30", central.OperatingHours.Dinner.Close)

	night := byID["night-canteen"]
	require.NotNil(t, night)
	assert.Equal(t, "22:00", night.OperatingHours.Dinner.Open)
	assert.Equal(t, "02:00", night.OperatingHours.Dinner.Close)
}

func TestApplyOnlySeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()

	n, err := Apply(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = Apply(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	count, _ := repo.CountMesses(ctx)
	assert.Equal(t, int64(4), count)
}

func TestPrepareRejectsInvalidRatings(t *testing.T) {
	base := func(ratings ...model.MessRating) *model.Mess {
		return &model.Mess{ID: "x", Name: "X", Type: model.KindMess, Ratings: ratings}
	}

	assert.Error(t, prepare(base(
		model.MessRating{UserID: "u", Rating: 3},
		model.MessRating{UserID: "u", Rating: 4},
	)))
	assert.Error(t, prepare(base(model.MessRating{UserID: "u", Rating: 0})))
	assert.Error(t, prepare(base(model.MessRating{UserID: "u", Rating: 6})))
	assert.Error(t, prepare(base(model.MessRating{Rating: 4})))

	m := base(model.MessRating{UserID: "u", Rating: 3}, model.MessRating{UserID: "v", Rating: 5})
	require.NoError(t, prepare(m))
	assert.Equal(t, 4.0, m.AverageRating)
	assert.False(t, m.Ratings[0].CreatedAt.IsZero())
}
