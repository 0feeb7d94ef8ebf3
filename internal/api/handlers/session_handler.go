package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/olfat123/profile-creator/internal/api/middleware"
	"github.com/olfat123/profile-creator/internal/models"
	"github.com/olfat123/profile-creator/internal/services"
	"github.com/olfat123/profile-creator/internal/utils"
)

type SessionHandler struct {
	sessions    services.SessionService
	accounts    services.AccountService
	attachments services.AttachmentService
	cookie      middleware.CookieConfig
}

func NewSessionHandler(sessions services.SessionService, accounts services.AccountService, attachments services.AttachmentService, cookie middleware.CookieConfig) *SessionHandler {
	return &SessionHandler{sessions: sessions, accounts: accounts, attachments: attachments, cookie: cookie}
}

type meResponse struct {
	Account     *models.Account     `json:"account"`
	Attachments []models.Attachment `json:"attachments"`
}

func (h *SessionHandler) Me(c *gin.Context) {
	ss := currentSession(c)
	if ss == nil {
		writeError(c, utils.E(utils.CodeUnauthorized, "SessionHandler.Me", "not logged in", nil))
		return
	}

	acc, err := h.accounts.Get(c.Request.Context(), ss.AccountID)
	if err != nil {
		writeError(c, err)
		return
	}
	atts, err := h.attachments.ListByAccount(c.Request.Context(), acc.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, meResponse{Account: acc, Attachments: atts})
}

func (h *SessionHandler) Logout(c *gin.Context) {
	if ss := currentSession(c); ss != nil {
		if err := h.sessions.Destroy(c.Request.Context(), ss.SessionID); err != nil {
			writeError(c, err)
			return
		}
	}
	h.cookie.Clear(c)
	c.Status(http.StatusNoContent)
}
