package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/peptide-insights-backend/internal/http/response"
	"github.com/yungbote/peptide-insights-backend/internal/services"
)

type SeedHandler struct {
	peptides services.PeptideService
	effects  services.EffectService
}

func NewSeedHandler(peptides services.PeptideService, effects services.EffectService) *SeedHandler {
	return &SeedHandler{peptides: peptides, effects: effects}
}

// POST /api/seed/peptides
func (h *SeedHandler) SeedPeptides(c *gin.Context) {
	out, err := h.peptides.SeedCatalog(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/seed/peptides
func (h *SeedHandler) ClearPeptides(c *gin.Context) {
	n, err := h.peptides.ClearCatalog(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": n})
}

// POST /api/seed/effects
func (h *SeedHandler) SeedEffects(c *gin.Context) {
	out, err := h.effects.SeedEffects(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/seed/effects
func (h *SeedHandler) ClearEffects(c *gin.Context) {
	n, err := h.effects.ClearEffects(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": n})
}
