package service

import (
	"context"
	"strings"

	"kampuskart/internal/mess/model"
)

// SubmitRating records the caller's rating, replacing any earlier one, and
// recomputes the mess average.
func (s *Service) SubmitRating(ctx context.Context, messID, userID string, input model.RatingInput) (*model.MessSummary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if input.Rating < model.MinRatingValue || input.Rating > model.MaxRatingValue {
		return nil, ErrInvalidRating
	}

	m, err := s.mutate(ctx, strings.TrimSpace(messID), func(m *model.Mess) error {
		rating := model.MessRating{
			UserID:    userID,
			Rating:    input.Rating,
			Review:    strings.TrimSpace(input.Review),
			Photos:    input.Photos,
			Tags:      input.Tags,
			CreatedAt: s.Now().UTC(),
		}

		replaced := false
		for i := range m.Ratings {
			if m.Ratings[i].UserID == userID {
				m.Ratings[i] = rating
				replaced = true
				break
			}
		}
		if !replaced {
			m.Ratings = append(m.Ratings, rating)
		}
		m.AverageRating = AverageRating(m.Ratings)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordActivity(&model.MessActivity{
		Operation: model.OpRatingSubmitted,
		MessID:    m.ID,
		UserID:    userID,
		CallerID:  userID,
		Rating:    input.Rating,
	})

	summary := toSummary(m, s.now())
	return &summary, nil
}

// AverageRating is the arithmetic mean of the ratings, or 0 when there are none.
func AverageRating(ratings []model.MessRating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(ratings))
}
