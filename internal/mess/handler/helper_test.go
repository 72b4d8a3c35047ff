package handler_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kampuskart/internal/mess/handler"
	"kampuskart/internal/mess/model"
	"kampuskart/internal/mess/router"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Search(ctx context.Context, filter model.SearchFilter) ([]model.MessSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MessSummary), args.Error(1)
}

func (m *MockCatalog) GetMess(ctx context.Context, id string) (*model.Mess, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Mess), args.Error(1)
}

func (m *MockCatalog) CheckOpen(ctx context.Context, id string, at time.Time) (*model.OpenStatus, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OpenStatus), args.Error(1)
}

func (m *MockCatalog) SubmitRating(ctx context.Context, messID, userID string, input model.RatingInput) (*model.MessSummary, error) {
	args := m.Called(ctx, messID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MessSummary), args.Error(1)
}

func (m *MockCatalog) SetSubscription(ctx context.Context, messID, userID, mealType string, isActive bool) (*model.Subscription, error) {
	args := m.Called(ctx, messID, userID, mealType, isActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockCatalog) RedeemMeal(ctx context.Context, messID, userID, mealType string) (*model.Subscription, error) {
	args := m.Called(ctx, messID, userID, mealType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockCatalog) ListMySubscriptions(ctx context.Context, messID, userID string) ([]model.Subscription, error) {
	args := m.Called(ctx, messID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Subscription), args.Error(1)
}

func (m *MockCatalog) CreateMess(ctx context.Context, callerID string, req model.UpsertMessReq) (*model.Mess, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Mess), args.Error(1)
}

func (m *MockCatalog) UpdateMess(ctx context.Context, callerID, id string, req model.UpsertMessReq) (*model.Mess, error) {
	args := m.Called(ctx, callerID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Mess), args.Error(1)
}

func (m *MockCatalog) DeleteMess(ctx context.Context, callerID, id string) error {
	return m.Called(ctx, callerID, id).Error(0)
}

func (m *MockCatalog) CreditMeals(ctx context.Context, callerID, messID string, req model.CreditMealsReq) (*model.Subscription, error) {
	args := m.Called(ctx, callerID, messID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockCatalog) ListActivity(ctx context.Context, req model.GetActivityReq) (*model.GetActivityResp, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GetActivityResp), args.Error(1)
}

func setupServer(catalog *MockCatalog, jwtSecret string) *echo.Echo {
	e := echo.New()
	h := handler.NewMessHandler(catalog, time.UTC)
	router.RegisterRoutes(e, h, router.Options{JWTSecret: jwtSecret})
	return e
}

func PerformRequest(e *echo.Echo, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var bodyReader *strings.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		bodyReader = strings.NewReader(string(b))
	} else {
		bodyReader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorDetail {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}
