package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/http/response"
	"github.com/yungbote/peptide-insights-backend/internal/services"
)

type EffectHandler struct {
	effects services.EffectService
}

func NewEffectHandler(effects services.EffectService) *EffectHandler {
	return &EffectHandler{effects: effects}
}

// GET /api/effects?type=&category=
func (h *EffectHandler) List(c *gin.Context) {
	out, err := h.effects.List(c.Request.Context(), types.EffectFilter{
		Type:     c.Query("type"),
		Category: c.Query("category"),
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}
