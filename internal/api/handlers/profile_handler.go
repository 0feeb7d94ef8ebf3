package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/olfat123/profile-creator/internal/models"
	"github.com/olfat123/profile-creator/internal/services"
)

type ProfileHandler struct {
	records services.RecordService
}

func NewProfileHandler(records services.RecordService) *ProfileHandler {
	return &ProfileHandler{records: records}
}

type profileResponse struct {
	*models.ProfileRecord
	URL string `json:"url"`
}

// Get serves a published profile by its permalink.
func (h *ProfileHandler) Get(c *gin.Context) {
	rec, err := h.records.GetBySlug(c.Request.Context(), c.Param("record_type"), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{ProfileRecord: rec, URL: h.records.PublicURL(rec)})
}
