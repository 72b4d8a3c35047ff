package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"kampuskart/internal/mess/model"
	"kampuskart/internal/mess/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var userHeaders = map[string]string{"x-user-id": "u1"}
var adminHeaders = map[string]string{"x-user-id": "admin-1", "x-user-role": "admin"}

func TestHealthCheck(t *testing.T) {
	e := setupServer(new(MockCatalog), "")
	rec := PerformRequest(e, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSearchMesses(t *testing.T) {
	t.Run("Success with filters", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")

		want := model.SearchFilter{IsOpen: true, Type: model.KindMess, MinRating: 4}
		catalog.On("Search", mock.Anything, want).Return([]model.MessSummary{{ID: "m1", Type: model.KindMess, AverageRating: 4.2, IsOpen: true}}, nil)

		rec := PerformRequest(e, http.MethodGet, "/api/v1/messes?isOpen=true&type=Mess&minRating=4", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got []model.MessSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "m1", got[0].ID)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		catalog.AssertExpectations(t)
	})

	t.Run("Empty result is an array", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		catalog.On("Search", mock.Anything, model.SearchFilter{}).Return([]model.MessSummary{}, nil)

		rec := PerformRequest(e, http.MethodGet, "/api/v1/messes", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	for _, q := range []string{"isOpen=maybe", "type=restaurant", "minRating=high"} {
		t.Run("Invalid "+q, func(t *testing.T) {
			catalog := new(MockCatalog)
			e := setupServer(catalog, "")

			rec := PerformRequest(e, http.MethodGet, "/api/v1/messes?"+q, nil, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "invalid_filter", decodeError(t, rec).Code)
			catalog.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
		})
	}

	t.Run("Out of range rating from service", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		catalog.On("Search", mock.Anything, model.SearchFilter{MinRating: 7}).
			Return(nil, fmt.Errorf("%w: minRating must be between 0 and 5", service.ErrInvalidFilter))

		rec := PerformRequest(e, http.MethodGet, "/api/v1/messes?minRating=7", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_filter", decodeError(t, rec).Code)
	})

	t.Run("Store down", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		catalog.On("Search", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: timeout", service.ErrPersistenceUnavailable))

		rec := PerformRequest(e, http.MethodGet, "/api/v1/messes", nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		detail := decodeError(t, rec)
		assert.Equal(t, "persistence_unavailable", detail.Code)
		assert.Equal(t, rec.Header().Get("X-Request-ID"), detail.RequestID)
	})
}

func TestGetMessAndCheckOpen(t *testing.T) {
	catalog := new(MockCatalog)
	e := setupServer(catalog, "")

	catalog.On("GetMess", mock.Anything, "m1").Return(&model.Mess{ID: "m1", Name: "North"}, nil)
	catalog.On("GetMess", mock.Anything, "ghost").Return(nil, service.ErrNotFound)

	rec := PerformRequest(e, http.MethodGet, "/api/v1/messes/m1", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "version")

	rec = PerformRequest(e, http.MethodGet, "/api/v1/messes/ghost", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)

	at := time.Date(2025, 3, 3, 23, 30, 0, 0, time.UTC)
	catalog.On("CheckOpen", mock.Anything, "m1", mock.MatchedBy(func(t time.Time) bool { return t.Equal(at) })).
		Return(&model.OpenStatus{MessID: "m1", IsOpen: true, CurrentWindow: "dinner", At: at}, nil)

	rec = PerformRequest(e, http.MethodGet, "/api/v1/messes/m1/open?at=2025-03-03T23:30:00Z", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status model.OpenStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.IsOpen)
	assert.Equal(t, "dinner", status.CurrentWindow)

	catalog.On("CheckOpen", mock.Anything, "m1", mock.MatchedBy(func(t time.Time) bool {
		return t.Hour() == 1 && t.Minute() == 0
	})).Return(&model.OpenStatus{MessID: "m1", IsOpen: true}, nil)
	rec = PerformRequest(e, http.MethodGet, "/api/v1/messes/m1/open?at=01:00", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = PerformRequest(e, http.MethodGet, "/api/v1/messes/m1/open?at=soon", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decodeError(t, rec).Code)
}

func TestSubmitRating(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		input := model.RatingInput{Rating: 5, Review: "great", Tags: []string{"spicy"}}
		catalog.On("SubmitRating", mock.Anything, "m1", "u1", input).
			Return(&model.MessSummary{ID: "m1", AverageRating: 5, RatingCount: 1}, nil)

		body := map[string]interface{}{"rating": 5, "review": " great ", "tags": []string{" Spicy"}}
		rec := PerformRequest(e, http.MethodPost, "/api/v1/messes/m1/ratings", body, userHeaders)
		assert.Equal(t, http.StatusOK, rec.Code)
		catalog.AssertExpectations(t)
	})

	t.Run("Missing identity", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		rec := PerformRequest(e, http.MethodPost, "/api/v1/messes/m1/ratings", map[string]int{"rating": 5}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthorized", decodeError(t, rec).Code)
	})

	for _, r := range []interface{}{0, 6, 4.5, "five"} {
		t.Run(fmt.Sprintf("Invalid rating %v", r), func(t *testing.T) {
			catalog := new(MockCatalog)
			e := setupServer(catalog, "")
			rec := PerformRequest(e, http.MethodPost, "/api/v1/messes/m1/ratings", map[string]interface{}{"rating": r}, userHeaders)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			catalog.AssertNotCalled(t, "SubmitRating", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("Unknown mess", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		catalog.On("SubmitRating", mock.Anything, "ghost", "u1", mock.Anything).Return(nil, service.ErrNotFound)
		rec := PerformRequest(e, http.MethodPost, "/api/v1/messes/ghost/ratings", map[string]int{"rating": 3}, userHeaders)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSubscriptions(t *testing.T) {
	t.Run("Set subscription normalizes meal", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		catalog.On("SetSubscription", mock.Anything, "m1", "u1", model.MealLunch, true).
			Return(&model.Subscription{UserID: "u1", MealType: model.MealLunch, IsActive: true}, nil)

		rec := PerformRequest(e, http.MethodPut, "/api/v1/messes/m1/subscriptions", map[string]interface{}{"mealType": "lunch", "isActive": true}, userHeaders)
		assert.Equal(t, http.StatusOK, rec.Code)
		catalog.AssertExpectations(t)
	})

	t.Run("Breakfast is not subscribable", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		rec := PerformRequest(e, http.MethodPut, "/api/v1/messes/m1/subscriptions", map[string]interface{}{"mealType": "Breakfast", "isActive": true}, userHeaders)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_meal_type", decodeError(t, rec).Code)
	})

	t.Run("isActive is required", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		rec := PerformRequest(e, http.MethodPut, "/api/v1/messes/m1/subscriptions", map[string]interface{}{"mealType": "Dinner"}, userHeaders)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "bad_request", decodeError(t, rec).Code)
	})

	t.Run("Redeem errors map to conflict", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		catalog.On("RedeemMeal", mock.Anything, "m1", "u1", model.MealDinner).Return(nil, service.ErrInsufficientMeals).Once()
		catalog.On("RedeemMeal", mock.Anything, "m1", "u1", model.MealDinner).Return(nil, service.ErrNoActiveSubscription).Once()
		catalog.On("RedeemMeal", mock.Anything, "m1", "u1", model.MealDinner).Return(nil, service.ErrConcurrentUpdate).Once()

		for _, code := range []string{"insufficient_meals", "no_active_subscription", "conflict"} {
			rec := PerformRequest(e, http.MethodPost, "/api/v1/messes/m1/subscriptions/redeem", map[string]string{"mealType": "Dinner"}, userHeaders)
			assert.Equal(t, http.StatusConflict, rec.Code)
			assert.Equal(t, code, decodeError(t, rec).Code)
		}
	})

	t.Run("Redeem success", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		catalog.On("RedeemMeal", mock.Anything, "m1", "u1", model.MealLunch).
			Return(&model.Subscription{UserID: "u1", MealType: model.MealLunch, IsActive: true, MealCount: 0}, nil)

		rec := PerformRequest(e, http.MethodPost, "/api/v1/messes/m1/subscriptions/redeem", map[string]string{"mealType": "Lunch"}, userHeaders)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"mealCount":0`)
	})

	t.Run("List mine", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		catalog.On("ListMySubscriptions", mock.Anything, "m1", "u1").Return([]model.Subscription{}, nil)

		rec := PerformRequest(e, http.MethodGet, "/api/v1/messes/m1/subscriptions/me", nil, userHeaders)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestAdminRoutes(t *testing.T) {
	upsert := map[string]interface{}{
		"name": "East Mess",
		"type": "mess",
		"operatingHours": map[string]interface{}{
			"lunch": map[string]interface{}{"open": "12:30", "close": "14:30"},
		},
	}

	t.Run("Requires admin role", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")

		rec := PerformRequest(e, http.MethodPost, "/api/v1/admin/messes", upsert, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = PerformRequest(e, http.MethodPost, "/api/v1/admin/messes", upsert, userHeaders)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "forbidden", decodeError(t, rec).Code)
	})

	t.Run("Create", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		catalog.On("CreateMess", mock.Anything, "admin-1", mock.MatchedBy(func(r model.UpsertMessReq) bool {
			return r.Name == "East Mess" && r.Type == model.KindMess
		})).Return(&model.Mess{ID: "new-id", Name: "East Mess"}, nil)

		rec := PerformRequest(e, http.MethodPost, "/api/v1/admin/messes", upsert, adminHeaders)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "new-id")
	})

	t.Run("Create rejected payload", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		rec := PerformRequest(e, http.MethodPost, "/api/v1/admin/messes", map[string]string{"name": "X", "type": "hotel"}, adminHeaders)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "bad_request", decodeError(t, rec).Code)
	})

	t.Run("Update and service validation", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		catalog.On("UpdateMess", mock.Anything, "admin-1", "m1", mock.Anything).
			Return(nil, fmt.Errorf("%w: duplicate plan for Lunch", service.ErrInvalidMess))

		rec := PerformRequest(e, http.MethodPut, "/api/v1/admin/messes/m1", upsert, adminHeaders)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Message, "duplicate plan")
	})

	t.Run("Delete", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		catalog.On("DeleteMess", mock.Anything, "admin-1", "m1").Return(nil)
		catalog.On("DeleteMess", mock.Anything, "admin-1", "ghost").Return(service.ErrNotFound)

		rec := PerformRequest(e, http.MethodDelete, "/api/v1/admin/messes/m1", nil, adminHeaders)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = PerformRequest(e, http.MethodDelete, "/api/v1/admin/messes/ghost", nil, adminHeaders)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Credit", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		want := model.CreditMealsReq{UserID: "u1", MealType: model.MealDinner, Meals: 30}
		catalog.On("CreditMeals", mock.Anything, "admin-1", "m1", want).
			Return(&model.Subscription{UserID: "u1", MealType: model.MealDinner, MealCount: 30}, nil)

		rec := PerformRequest(e, http.MethodPost, "/api/v1/admin/messes/m1/subscriptions/credit",
			map[string]interface{}{"userId": "u1", "mealType": "dinner", "meals": 30}, adminHeaders)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = PerformRequest(e, http.MethodPost, "/api/v1/admin/messes/m1/subscriptions/credit",
			map[string]interface{}{"userId": "u1", "mealType": "dinner", "meals": 5000}, adminHeaders)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Activity paging defaults", func(t *testing.T) {
		catalog := new(MockCatalog)
		e := setupServer(catalog, "")
		catalog.On("ListActivity", mock.Anything, model.GetActivityReq{MessID: "m1", Page: 2, Size: 50}).
			Return(&model.GetActivityResp{Data: []*model.MessActivity{}, Page: 2, Size: 50, TotalCount: 60}, nil)

		rec := PerformRequest(e, http.MethodGet, "/api/v1/admin/messes/m1/activity?page=2", nil, adminHeaders)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"totalCount":60`)
	})
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestJWTIdentity(t *testing.T) {
	const secret = "test-secret"
	catalog := new(MockCatalog)
	e := setupServer(catalog, secret)
	catalog.On("ListMySubscriptions", mock.Anything, "m1", "jwt-user").Return([]model.Subscription{}, nil)
	catalog.On("DeleteMess", mock.Anything, "jwt-admin", "m1").Return(nil)

	// Headers are ignored once a secret is configured
	rec := PerformRequest(e, http.MethodGet, "/api/v1/messes/m1/subscriptions/me", nil, userHeaders)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = PerformRequest(e, http.MethodGet, "/api/v1/messes/m1/subscriptions/me", nil, map[string]string{
		"Authorization": signToken(t, secret, jwt.MapClaims{"sub": "jwt-user"}),
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = PerformRequest(e, http.MethodGet, "/api/v1/messes/m1/subscriptions/me", nil, map[string]string{
		"Authorization": signToken(t, "other-secret", jwt.MapClaims{"sub": "jwt-user"}),
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = PerformRequest(e, http.MethodDelete, "/api/v1/admin/messes/m1", nil, map[string]string{
		"Authorization": signToken(t, secret, jwt.MapClaims{"sub": "jwt-user", "role": "student"}),
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = PerformRequest(e, http.MethodDelete, "/api/v1/admin/messes/m1", nil, map[string]string{
		"Authorization": signToken(t, secret, jwt.MapClaims{"sub": "jwt-admin", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}),
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
