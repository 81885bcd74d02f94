package handlers

import (
	"net/http"

	"github.com/pantrysage/v1/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type signInRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required,email"`
}

// SignIn switches the active session to the given account, creating its
// collections on first sight, and returns a session token.
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	session, err := h.svc.SignIn(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.mw.IssueToken(string(session.Identity))
	if err != nil {
		h.logger.Error("Failed to issue session token", zap.Error(err))
		h.respondError(c, errors.NewInternalError("failed to issue session token"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"token":   token,
	})
}

// SignOut returns the app to the guest session.
func (h *Handler) SignOut(c *gin.Context) {
	if err := h.svc.SignOut(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": h.svc.Session()})
}

// Session reports the active identity.
func (h *Handler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"session": h.svc.Session()})
}
