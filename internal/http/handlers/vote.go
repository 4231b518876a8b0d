package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/peptide-insights-backend/internal/http/response"
	"github.com/yungbote/peptide-insights-backend/internal/services"
)

type VoteHandler struct {
	votes services.VoteService
}

func NewVoteHandler(votes services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// POST /api/experiences/:id/votes
// body: { "type": "helpful" | "detailed" | "concerning" }
func (h *VoteHandler) Submit(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Type string `json:"type"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.votes.Submit(c.Request.Context(), id, req.Type)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/experiences/:id/votes
func (h *VoteHandler) Counts(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	out, err := h.votes.Counts(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/experiences/:id/votes/user
func (h *VoteHandler) GetUserVote(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	out, err := h.votes.GetUserVote(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/experiences/:id/votes
func (h *VoteHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	out, err := h.votes.Delete(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}
