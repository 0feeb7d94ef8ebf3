package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/olfat123/profile-creator/internal/models"
	"github.com/olfat123/profile-creator/internal/services"
)

type TaxonomyHandler struct {
	svc services.TaxonomyService
}

func NewTaxonomyHandler(svc services.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{svc: svc}
}

type taxonomyResponse struct {
	*models.Taxonomy
	Reference models.ReferenceLists `json:"reference"`
}

func (h *TaxonomyHandler) Get(c *gin.Context) {
	tree, err := h.svc.Tree(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taxonomyResponse{Taxonomy: tree, Reference: h.svc.ReferenceLists()})
}
