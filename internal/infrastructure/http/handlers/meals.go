package handlers

import (
	"net/http"

	"github.com/pantrysage/v1/internal/domain/recipe"
	"github.com/pantrysage/v1/pkg/errors"

	"github.com/gin-gonic/gin"
)

// LogMeal records a recipe as cooked now and depletes the pantry.
func (h *Handler) LogMeal(c *gin.Context) {
	var r recipe.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	meal, err := h.svc.LogMeal(c.Request.Context(), r)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"meal": meal})
}

type scheduleMealRequest struct {
	Recipe   recipe.Recipe `json:"recipe" binding:"required"`
	Date     string        `json:"date" binding:"required"`
	MealType string        `json:"meal_type"`
}

// ScheduleMeal plans a recipe on a calendar date.
func (h *Handler) ScheduleMeal(c *gin.Context) {
	var req scheduleMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	meal, err := h.svc.ScheduleMeal(c.Request.Context(), req.Recipe, req.Date, req.MealType)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"meal": meal})
}

// CompleteMeal marks a planned meal as cooked.
func (h *Handler) CompleteMeal(c *gin.Context) {
	mealID, ok := h.pathUUID(c, "mealID")
	if !ok {
		return
	}
	if err := h.svc.CompleteMeal(c.Request.Context(), mealID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": h.svc.MealHistory()})
}

// DeleteMeal removes a meal history entry.
func (h *Handler) DeleteMeal(c *gin.Context) {
	mealID, ok := h.pathUUID(c, "mealID")
	if !ok {
		return
	}
	if err := h.svc.DeleteMeal(c.Request.Context(), mealID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MealHistory lists logged and planned meals, newest first.
func (h *Handler) MealHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"meals": h.svc.MealHistory()})
}
