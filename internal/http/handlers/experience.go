package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/peptide-insights-backend/internal/http/response"
	"github.com/yungbote/peptide-insights-backend/internal/services"
)

const (
	headerIdempotencyKey     = "Idempotency-Key"
	headerIdempotentReplayed = "Idempotent-Replayed"
)

type ExperienceHandler struct {
	experiences services.ExperienceService
}

func NewExperienceHandler(experiences services.ExperienceService) *ExperienceHandler {
	return &ExperienceHandler{experiences: experiences}
}

// POST /api/experiences
// A replayed Idempotency-Key answers 200 with the original experience
// instead of 201.
func (h *ExperienceHandler) Create(c *gin.Context) {
	var in services.ExperienceInput
	if !bindJSON(c, &in) {
		return
	}
	exp, replayed, err := h.experiences.Create(c.Request.Context(), in, c.GetHeader(headerIdempotencyKey))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if replayed {
		c.Header(headerIdempotentReplayed, "true")
		response.RespondOK(c, exp)
		return
	}
	response.RespondCreated(c, exp)
}

// GET /api/experiences?peptideId=&page=&limit=&sort=
func (h *ExperienceHandler) List(c *gin.Context) {
	h.list(c, c.Query("peptideId"))
}

// GET /api/experiences/peptide/:peptideId
func (h *ExperienceHandler) ListByPeptide(c *gin.Context) {
	id, ok := pathUUID(c, "peptideId")
	if !ok {
		return
	}
	h.list(c, id.String())
}

func (h *ExperienceHandler) list(c *gin.Context, peptideID string) {
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	out, err := h.experiences.List(c.Request.Context(), services.ListParams{
		PeptideID: peptideID,
		Page:      page,
		Limit:     limit,
		Sort:      c.Query("sort"),
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/experiences/:id
func (h *ExperienceHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	out, err := h.experiences.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/experiences/tracking/:trackingId
func (h *ExperienceHandler) GetByTrackingID(c *gin.Context) {
	out, err := h.experiences.GetByTrackingID(c.Request.Context(), c.Param("trackingId"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/experiences/:id
func (h *ExperienceHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.experiences.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"id": id})
}
