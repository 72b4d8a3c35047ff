package service

import (
	"context"
	"time"

	"kampuskart/internal/mess/model"
	"kampuskart/internal/mess/util"

	"github.com/google/uuid"
)

// recordActivity emits an audit record asynchronously (fire-and-forget).
// With a broker configured the record is published and persisted by the
// consumer; otherwise, or when publishing fails, it is written directly.
func (s *Service) recordActivity(activity *model.MessActivity) {
	if s.Publisher == nil && s.ActivityRepo == nil {
		return
	}
	activity.ID = uuid.NewString()
	activity.CreatedAt = s.Now().UTC()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if s.Publisher != nil {
			err := s.Publisher.Publish(ctx, activity)
			if err == nil {
				return
			}
			util.GetLogger().Warn("publish activity failed, writing directly",
				"operation", activity.Operation, "mess_id", activity.MessID, "error", err)
		}
		if s.ActivityRepo == nil {
			return
		}
		if err := s.ActivityRepo.CreateActivity(ctx, activity); err != nil {
			util.GetLogger().Error("record activity failed",
				"operation", activity.Operation, "mess_id", activity.MessID, "error", err)
		}
	}()
}

func (s *Service) ListActivity(ctx context.Context, req model.GetActivityReq) (*model.GetActivityResp, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.ActivityRepo == nil {
		return &model.GetActivityResp{Data: []*model.MessActivity{}, Page: req.Page, Size: req.Size}, nil
	}

	data, total, err := s.ActivityRepo.FindActivity(ctx, req)
	if err != nil {
		return nil, storeErr(err)
	}
	// A deleted mess keeps its feed; an id that never had any activity
	// and does not exist is unknown.
	if total == 0 && s.Repo != nil {
		if _, err := s.Repo.GetMess(ctx, req.MessID); err != nil {
			return nil, storeErr(err)
		}
	}
	return &model.GetActivityResp{
		Data:       data,
		Page:       req.Page,
		Size:       req.Size,
		TotalCount: total,
	}, nil
}
