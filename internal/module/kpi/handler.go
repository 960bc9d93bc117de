package kpi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oneview/server/internal/module/user"
	"github.com/oneview/server/internal/shared/middleware"
	"github.com/oneview/server/internal/shared/response"
	"github.com/oneview/server/internal/utils/pagination"
)

// UserLookup loads the caller's account.
type UserLookup interface {
	GetActiveUser(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Handler handles HTTP requests for dashboard data and the cache.
type Handler struct {
	service *Service
	users   UserLookup
}

// NewHandler creates a new KPI handler.
func NewHandler(service *Service, users UserLookup) *Handler {
	return &Handler{service: service, users: users}
}

// RegisterRoutes registers the public KPI routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/data-source-status", h.GetDataSourceStatus)
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/kpi-data", h.GetKPIData)
	r.GET("/kpi-history", h.GetHistory)

	admin := r.Group("/cache", middleware.RequireRole(string(user.RoleAdmin)), h.requireAdmin)
	{
		admin.POST("/clear", h.ClearCache)
		admin.GET("/stats", h.GetCacheStats)
	}
}

// requireAdmin rechecks the role against the stored account, so a demoted or
// deactivated admin is refused even while their token is still valid.
func (h *Handler) requireAdmin(c *gin.Context) {
	u, err := h.users.GetActiveUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		c.Abort()
		return
	}
	if u.Role != user.RoleAdmin {
		response.Error(c, http.StatusForbidden, "Admin access required")
		c.Abort()
		return
	}
	c.Next()
}

var errorMappings = []response.ErrorMapping{
	{Err: user.ErrUserNotFound, Status: http.StatusNotFound, Message: "User not found or inactive"},
	{Err: ErrHistoryUnavailable, Status: http.StatusServiceUnavailable, Message: "KPI history is unavailable"},
}

// GetKPIData returns the dashboard view for the caller's role.
//
//	@Summary		Get KPI data
//	@Description	Combined Google Ads, Meta Ads and Google Analytics data projected for the caller's role
//	@Tags			KPI
//	@Produce		json
//	@Security		BearerAuth
//	@Param			force_refresh	query		bool	false	"Clear the cache before fetching"
//	@Success		200				{object}	KPIResponse
//	@Failure		401				{object}	response.ErrorResponse
//	@Failure		404				{object}	response.ErrorResponse
//	@Router			/kpi-data [get]
func (h *Handler) GetKPIData(c *gin.Context) {
	ctx := c.Request.Context()

	u, err := h.users.GetActiveUser(ctx, middleware.GetUserID(c))
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}

	role := string(u.Role)
	var data *CombinedPayload
	if strings.EqualFold(c.Query("force_refresh"), "true") {
		data, err = h.service.Refresh(ctx, role)
		if err != nil {
			response.InternalError(c, "Failed to fetch KPI data")
			return
		}
	} else {
		data = h.service.Combine(ctx, role)
	}

	stats, err := h.service.CacheStats(ctx)
	if err != nil {
		response.InternalError(c, "Failed to fetch KPI data")
		return
	}

	c.JSON(http.StatusOK, KPIResponse{
		Success:    true,
		UserRole:   role,
		UserName:   u.FullName(),
		Data:       data,
		CacheStats: stats,
	})
}

// ClearCache drops all cached source payloads.
//
//	@Summary		Clear cache
//	@Description	Clear the per-source payload cache (admin only)
//	@Tags			Cache
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	MessageResponse
//	@Failure		401	{object}	response.ErrorResponse
//	@Failure		403	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/cache/clear [post]
func (h *Handler) ClearCache(c *gin.Context) {
	if err := h.service.ClearCache(c.Request.Context()); err != nil {
		response.InternalError(c, "Failed to clear cache")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Cache cleared successfully"})
}

// GetCacheStats returns the live cache entries.
//
//	@Summary		Cache statistics
//	@Description	Number and keys of cached source payloads (admin only)
//	@Tags			Cache
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	CacheStatsResponse
//	@Failure		401	{object}	response.ErrorResponse
//	@Failure		403	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/cache/stats [get]
func (h *Handler) GetCacheStats(c *gin.Context) {
	stats, err := h.service.CacheStats(c.Request.Context())
	if err != nil {
		response.InternalError(c, "Failed to fetch cache stats")
		return
	}
	c.JSON(http.StatusOK, CacheStatsResponse{Success: true, CacheStats: stats})
}

// GetDataSourceStatus reports which sources are live.
//
//	@Summary		Data source status
//	@Description	Whether each source is currently served from its live API or from mock data
//	@Tags			KPI
//	@Produce		json
//	@Success		200	{object}	DataSourceStatus
//	@Router			/data-source-status [get]
func (h *Handler) GetDataSourceStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.DataSourceStatus(c.Request.Context()))
}

// HistoryQuery are the query parameters of GET /kpi-history.
type HistoryQuery struct {
	pagination.Pagination
	Source string `form:"source"`
	Metric string `form:"metric"`
}

// HistoryResponse is the body of GET /kpi-history.
type HistoryResponse struct {
	Success  bool                `json:"success"`
	Data     []*KpiData          `json:"data"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

// GetHistory lists persisted KPI snapshots.
//
//	@Summary		KPI history
//	@Description	Recent KPI snapshot rows recorded from live API fetches, newest first
//	@Tags			KPI
//	@Produce		json
//	@Security		BearerAuth
//	@Param			source	query		string	false	"Source name (google_ads, meta_ads, google_analytics)"
//	@Param			metric	query		string	false	"Metric name"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Rows per page"
//	@Success		200		{object}	HistoryResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		401		{object}	response.ErrorResponse
//	@Router			/kpi-history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	var q HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rows, total, err := h.service.History(c.Request.Context(), HistoryFilter{Source: q.Source, MetricName: q.Metric}, &q.Pagination)
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	if rows == nil {
		rows = []*KpiData{}
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Success:  true,
		Data:     rows,
		PageInfo: q.Pagination.Info(total),
	})
}
