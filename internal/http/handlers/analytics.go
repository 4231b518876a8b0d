package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/peptide-insights-backend/internal/analytics"
	"github.com/yungbote/peptide-insights-backend/internal/http/response"
	"github.com/yungbote/peptide-insights-backend/internal/services"
)

type AnalyticsHandler struct {
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(svc services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: svc}
}

// GET /api/analytics
func (h *AnalyticsHandler) GetOverview(c *gin.Context) {
	out, err := h.analytics.GetOverview(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/analytics/peptide-effectiveness
func (h *AnalyticsHandler) GetEffectiveness(c *gin.Context) {
	out, err := h.analytics.GetEffectiveness(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/analytics/peptide-trends?period=monthly&limit=12
// GET /api/analytics/trends
func (h *AnalyticsHandler) GetTrends(c *gin.Context) {
	limit := analytics.DefaultTrendLimit
	if strings.TrimSpace(c.Query("limit")) != "" {
		n, ok := queryInt(c, "limit")
		if !ok {
			return
		}
		limit = n
	}
	out, err := h.analytics.GetTrends(c.Request.Context(), c.Query("period"), limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/analytics/peptide-comparison?peptideIds=a,b
func (h *AnalyticsHandler) GetComparison(c *gin.Context) {
	var ids []string
	for _, v := range c.QueryArray("peptideIds") {
		ids = append(ids, strings.Split(v, ",")...)
	}
	out, err := h.analytics.GetComparison(c.Request.Context(), ids)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}
