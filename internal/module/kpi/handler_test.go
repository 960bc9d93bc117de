package kpi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oneview/server/internal/module/auth"
	"github.com/oneview/server/internal/module/user"
	"github.com/oneview/server/internal/shared/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockUserLookup is a mock implementation of UserLookup.
type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) GetActiveUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func setupRouter(env *testEnv, users UserLookup, claims *auth.Claims) *gin.Engine {
	r := gin.New()
	h := NewHandler(env.service, users)

	api := r.Group("/api")
	h.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ClaimsKey, claims)
		}
		c.Next()
	})
	h.RegisterProtectedRoutes(protected)
	return r
}

func do(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func financeUser() *user.User {
	return &user.User{
		ID:        uuid.New(),
		Email:     "finance@company.com",
		Role:      user.RoleFinance,
		FirstName: "Finance",
		LastName:  "Manager",
		IsActive:  true,
	}
}

func TestHandler_GetKPIData(t *testing.T) {
	env := newTestEnv(t, liveAds)
	u := financeUser()
	users := new(MockUserLookup)
	users.On("GetActiveUser", mock.Anything, u.ID).Return(u, nil)
	r := setupRouter(env, users, &auth.Claims{UserID: u.ID, Role: "finance"})

	w := do(r, http.MethodGet, "/api/kpi-data")

	require.Equal(t, http.StatusOK, w.Code)
	var resp KPIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "finance", resp.UserRole)
	assert.Equal(t, "Finance Manager", resp.UserName)
	assert.Contains(t, resp.Data.KeyMetrics, "conversion_value")
	assert.Equal(t, 3, resp.CacheStats.CachedItems)
	users.AssertExpectations(t)
}

func TestHandler_GetKPIData_ForceRefresh(t *testing.T) {
	env := newTestEnv(t, liveAds)
	u := financeUser()
	users := new(MockUserLookup)
	users.On("GetActiveUser", mock.Anything, u.ID).Return(u, nil)
	r := setupRouter(env, users, &auth.Claims{UserID: u.ID, Role: "finance"})

	do(r, http.MethodGet, "/api/kpi-data")
	do(r, http.MethodGet, "/api/kpi-data")
	assert.Equal(t, int32(1), env.adsCalls.Load())

	w := do(r, http.MethodGet, "/api/kpi-data?force_refresh=TRUE")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(2), env.adsCalls.Load())
}

func TestHandler_GetKPIData_InactiveUser(t *testing.T) {
	env := newTestEnv(t, liveAds)
	id := uuid.New()
	users := new(MockUserLookup)
	users.On("GetActiveUser", mock.Anything, id).Return(nil, user.ErrUserNotFound)
	r := setupRouter(env, users, &auth.Claims{UserID: id, Role: "admin"})

	w := do(r, http.MethodGet, "/api/kpi-data")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found or inactive")
}

func TestHandler_CacheRoutesRequireAdmin(t *testing.T) {
	env := newTestEnv(t, liveAds)
	r := setupRouter(env, new(MockUserLookup), &auth.Claims{UserID: uuid.New(), Role: "marketing"})

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/api/cache/clear").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/cache/stats").Code)
}

func adminUser() *user.User {
	return &user.User{
		ID:        uuid.New(),
		Email:     "admin@company.com",
		Role:      user.RoleAdmin,
		FirstName: "Admin",
		LastName:  "User",
		IsActive:  true,
	}
}

func TestHandler_CacheRoutes_StoredRoleWins(t *testing.T) {
	env := newTestEnv(t, liveAds)
	demoted := adminUser()
	demoted.Role = user.RoleMarketing
	users := new(MockUserLookup)
	users.On("GetActiveUser", mock.Anything, demoted.ID).Return(demoted, nil)
	r := setupRouter(env, users, &auth.Claims{UserID: demoted.ID, Role: "admin"})
	env.service.Combine(context.Background(), "admin")

	w := do(r, http.MethodPost, "/api/cache/clear")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Admin access required")
	stats, err := env.service.CacheStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.CachedItems)
}

func TestHandler_CacheRoutes_DeactivatedAdmin(t *testing.T) {
	env := newTestEnv(t, liveAds)
	id := uuid.New()
	users := new(MockUserLookup)
	users.On("GetActiveUser", mock.Anything, id).Return(nil, user.ErrUserNotFound)
	r := setupRouter(env, users, &auth.Claims{UserID: id, Role: "admin"})

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/cache/stats").Code)
}

func TestHandler_CacheRoutes(t *testing.T) {
	env := newTestEnv(t, liveAds)
	admin := adminUser()
	users := new(MockUserLookup)
	users.On("GetActiveUser", mock.Anything, admin.ID).Return(admin, nil)
	r := setupRouter(env, users, &auth.Claims{UserID: admin.ID, Role: "admin"})
	env.service.Combine(context.Background(), "admin")

	w := do(r, http.MethodGet, "/api/cache/stats")
	require.Equal(t, http.StatusOK, w.Code)
	var stats CacheStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.CacheStats.CachedItems)

	w = do(r, http.MethodPost, "/api/cache/clear")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cache cleared successfully")

	w = do(r, http.MethodGet, "/api/cache/stats")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Zero(t, stats.CacheStats.CachedItems)
}

func TestHandler_GetDataSourceStatus(t *testing.T) {
	env := newTestEnv(t, nil)
	r := setupRouter(env, new(MockUserLookup), nil)

	w := do(r, http.MethodGet, "/api/data-source-status")

	require.Equal(t, http.StatusOK, w.Code)
	var status DataSourceStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.GoogleAdsAPIEnabled)
	assert.Equal(t, "mock_data", status.CurrentSource)
	assert.Len(t, status.Sources, 3)
}

func TestHandler_GetHistory(t *testing.T) {
	env := newTestEnv(t, nil)
	r := setupRouter(env, new(MockUserLookup), &auth.Claims{UserID: uuid.New(), Role: "finance"})
	rows := []*KpiData{{ID: 9, Source: "meta_ads", MetricName: "reach", MetricValue: 10}}
	env.repo.On("ListHistory", mock.Anything, HistoryFilter{Source: "meta_ads"}, mock.Anything).Return(rows, int64(21), nil)

	w := do(r, http.MethodGet, "/api/kpi-history?source=meta_ads&page=2&limit=10")

	require.Equal(t, http.StatusOK, w.Code)
	var resp HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.PageInfo.Page)
	assert.Equal(t, 10, resp.PageInfo.Limit)
	assert.Equal(t, 3, resp.PageInfo.TotalPages)
}

func TestHandler_GetHistory_BadQuery(t *testing.T) {
	env := newTestEnv(t, nil)
	r := setupRouter(env, new(MockUserLookup), &auth.Claims{UserID: uuid.New(), Role: "finance"})

	w := do(r, http.MethodGet, "/api/kpi-history?limit=-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
