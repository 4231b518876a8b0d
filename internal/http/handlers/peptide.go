package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/peptide-insights-backend/internal/http/response"
	"github.com/yungbote/peptide-insights-backend/internal/services"
)

type PeptideHandler struct {
	peptides services.PeptideService
}

func NewPeptideHandler(peptides services.PeptideService) *PeptideHandler {
	return &PeptideHandler{peptides: peptides}
}

// GET /api/peptides
func (h *PeptideHandler) List(c *gin.Context) {
	out, err := h.peptides.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/peptides/:id
func (h *PeptideHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	out, err := h.peptides.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/peptides/search/:query
func (h *PeptideHandler) Search(c *gin.Context) {
	out, err := h.peptides.Search(c.Request.Context(), c.Param("query"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/peptides
func (h *PeptideHandler) Create(c *gin.Context) {
	var in services.PeptideInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.peptides.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, out)
}

// PUT /api/peptides/:id
func (h *PeptideHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var in services.PeptideInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.peptides.Update(c.Request.Context(), id, in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/peptides/:id
func (h *PeptideHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.peptides.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"id": id})
}
