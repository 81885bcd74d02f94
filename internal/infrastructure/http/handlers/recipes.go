package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pantrysage/v1/internal/domain/recipe"
	"github.com/pantrysage/v1/internal/ports/inbound"
	"github.com/pantrysage/v1/pkg/errors"

	"github.com/gin-gonic/gin"
)

// GenerateRecipes starts a generation batch and streams each completed
// recipe as a newline-delimited JSON event, so the client can render the
// first suggestion while later slots are still in flight.
func (h *Handler) GenerateRecipes(c *gin.Context) {
	var opts inbound.GenerateOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	ch, err := h.svc.GenerateRecipes(c.Request.Context(), opts)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	enc := json.NewEncoder(c.Writer)
	c.Stream(func(w io.Writer) bool {
		result, ok := <-ch
		if !ok {
			return false
		}
		if err := enc.Encode(result); err != nil {
			return false
		}
		return true
	})
}

// CancelGeneration aborts an in-flight batch.
func (h *Handler) CancelGeneration(c *gin.Context) {
	h.svc.CancelGeneration()
	c.JSON(http.StatusOK, gin.H{"generating": h.svc.IsGenerating()})
}

// GenerationStatus reports batch progress.
func (h *Handler) GenerationStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"generating": h.svc.IsGenerating(),
		"recipes":    h.svc.GeneratedRecipes(),
	})
}

// ToggleSaveRecipe saves or unsaves a recipe.
func (h *Handler) ToggleSaveRecipe(c *gin.Context) {
	var r recipe.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	saved, err := h.svc.ToggleSaveRecipe(c.Request.Context(), r)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// SavedRecipes lists the saved collection, newest first.
func (h *Handler) SavedRecipes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"recipes": h.svc.SavedRecipes()})
}

type customRecipeRequest struct {
	Title        string   `json:"title" binding:"required"`
	Ingredients  []string `json:"ingredients" binding:"required,min=1"`
	Instructions []string `json:"instructions" binding:"required,min=1"`
}

// CreateCustomRecipe stores a user-authored recipe.
func (h *Handler) CreateCustomRecipe(c *gin.Context) {
	var req customRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	r, err := h.svc.CreateCustomRecipe(c.Request.Context(), req.Title, req.Ingredients, req.Instructions)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": r})
}
