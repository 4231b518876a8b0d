package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/peptide-insights-backend/internal/http/response"
	"github.com/yungbote/peptide-insights-backend/internal/services"
)

type UserHandler struct {
	profiles services.ProfileService
}

func NewUserHandler(profiles services.ProfileService) *UserHandler {
	return &UserHandler{profiles: profiles}
}

// GET /api/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	out, err := h.profiles.Get(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// PUT /api/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var in services.ProfileInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.profiles.Update(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}
