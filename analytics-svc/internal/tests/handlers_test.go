package tests

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpapi "github.com/nazarkrivolesov/kitchen-2.0/analytics-svc/internal/api/http"
	"github.com/nazarkrivolesov/kitchen-2.0/analytics-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/analytics-svc/internal/mocks"
	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

func newRouter(t *testing.T) (http.Handler, *mocks.AnalyticsInterface, string) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	sessions := session.NewManager("test-secret", time.Hour, session.NewRedisRevocations(rdb))
	token, _, err := sessions.Issue("admin-1", "admin@kitchen.ua")
	require.NoError(t, err)

	analytics := mocks.NewAnalyticsInterface(t)
	return httpapi.NewRouter(httpapi.NewHandler(analytics), sessions, zerolog.Nop()), analytics, token
}

func TestTopDishesHandler(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		admin        bool
		prepareMocks func(*mocks.AnalyticsInterface)
		expectedCode int
	}{
		{
			name:  "success",
			url:   "/api/analytics/top-dishes?period=all&limit=5",
			admin: true,
			prepareMocks: func(m *mocks.AnalyticsInterface) {
				m.On("TopDishes", mock.Anything, domain.TopQuery{Period: domain.PeriodAll, Limit: 5}).
					Return([]domain.DishStat{{Rank: 1, DishID: "borshch", Name: "Борщ", Quantity: 12}}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:  "defaults_left_to_service",
			url:   "/api/analytics/top-dishes",
			admin: true,
			prepareMocks: func(m *mocks.AnalyticsInterface) {
				m.On("TopDishes", mock.Anything, domain.TopQuery{}).Return([]domain.DishStat{}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:  "invalid_period",
			url:   "/api/analytics/top-dishes?period=week",
			admin: true,
			prepareMocks: func(m *mocks.AnalyticsInterface) {
				v := &apperr.ValidationError{}
				v.Add("period", "must be one of today, all")
				m.On("TopDishes", mock.Anything, mock.Anything).Return(nil, v).Once()
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "non_numeric_limit",
			url:          "/api/analytics/top-dishes?limit=ten",
			admin:        true,
			prepareMocks: func(*mocks.AnalyticsInterface) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "anonymous",
			url:          "/api/analytics/top-dishes",
			prepareMocks: func(*mocks.AnalyticsInterface) {},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			router, analytics, token := newRouter(t)
			testCase.prepareMocks(analytics)

			req := httptest.NewRequest(http.MethodGet, testCase.url, nil)
			if testCase.admin {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, testCase.expectedCode, w.Code)
		})
	}
}

func TestSummaryHandler(t *testing.T) {
	router, analytics, token := newRouter(t)
	analytics.On("Summary", mock.Anything, "2026-05-04").
		Return(&domain.Summary{Date: "2026-05-04", Revenue: 1030, Orders: 2, AverageOrder: 515}, nil).Once()
	analytics.On("Summary", mock.Anything, "").
		Return(nil, apperr.External("redis", "read", errors.New("timeout"))).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/summary?date=2026-05-04", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var summary domain.Summary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, int64(515), summary.AverageOrder)

	req = httptest.NewRequest(http.MethodGet, "/api/analytics/summary", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
