package handlers

import (
	"net/http"

	"github.com/pantrysage/v1/internal/domain/account"
	"github.com/pantrysage/v1/internal/ports/outbound"
	"github.com/pantrysage/v1/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Preferences returns the active identity's preferences.
func (h *Handler) Preferences(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"preferences": h.svc.Preferences()})
}

// UpdatePreferences replaces the editable preference fields.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	var prefs account.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	updated, err := h.svc.UpdatePreferences(c.Request.Context(), prefs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": updated})
}

// StartTrial activates the free trial window.
func (h *Handler) StartTrial(c *gin.Context) {
	membership, err := h.svc.StartTrial(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"membership": membership})
}

type subscriptionEventRequest struct {
	Tier string `json:"tier" binding:"required"`
}

// ApplySubscription records a tier-changed event from the billing
// boundary.
func (h *Handler) ApplySubscription(c *gin.Context) {
	var req subscriptionEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	membership, err := h.svc.ApplySubscription(c.Request.Context(), req.Tier)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"membership": membership})
}

// Membership summarizes the trial/subscription state.
func (h *Handler) Membership(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"membership": h.svc.Membership()})
}

type chatRequest struct {
	Message string                 `json:"message" binding:"required"`
	History []outbound.ChatMessage `json:"history"`
}

// Chat answers a cooking question with pantry context.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	reply, err := h.svc.Chat(c.Request.Context(), req.History, req.Message)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
