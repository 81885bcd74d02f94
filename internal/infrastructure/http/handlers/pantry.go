package handlers

import (
	"io"
	"net/http"

	"github.com/pantrysage/v1/pkg/errors"

	"github.com/gin-gonic/gin"
)

// maxScanBytes bounds receipt/photo uploads.
const maxScanBytes = 8 << 20

// ListPantries returns every pantry plus the active selection.
func (h *Handler) ListPantries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"pantries": h.svc.Pantries(),
		"active":   h.svc.ActivePantry().ID,
	})
}

type createPantryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreatePantry adds a named pantry and makes it active.
func (h *Handler) CreatePantry(c *gin.Context) {
	var req createPantryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	p, err := h.svc.CreatePantry(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pantry": p})
}

// SelectPantry switches the active pantry.
func (h *Handler) SelectPantry(c *gin.Context) {
	id, ok := h.pathUUID(c, "pantryID")
	if !ok {
		return
	}
	if err := h.svc.SelectPantry(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": id})
}

type addIngredientRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity string `json:"quantity"`
}

// AddIngredient adds or merges one ingredient.
func (h *Handler) AddIngredient(c *gin.Context) {
	id, ok := h.pathUUID(c, "pantryID")
	if !ok {
		return
	}
	var req addIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	ing, err := h.svc.AddIngredient(c.Request.Context(), id, req.Name, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ingredient": ing})
}

type adjustQuantityRequest struct {
	Delta float64 `json:"delta" binding:"required"`
}

// AdjustIngredient applies a signed quantity delta; hitting zero removes
// the ingredient.
func (h *Handler) AdjustIngredient(c *gin.Context) {
	pantryID, ok := h.pathUUID(c, "pantryID")
	if !ok {
		return
	}
	ingredientID, ok := h.pathUUID(c, "ingredientID")
	if !ok {
		return
	}
	var req adjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	if err := h.svc.AdjustIngredientQuantity(c.Request.Context(), pantryID, ingredientID, req.Delta); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pantry": h.svc.ActivePantry()})
}

// RemoveIngredient deletes an ingredient.
func (h *Handler) RemoveIngredient(c *gin.Context) {
	pantryID, ok := h.pathUUID(c, "pantryID")
	if !ok {
		return
	}
	ingredientID, ok := h.pathUUID(c, "ingredientID")
	if !ok {
		return
	}

	if err := h.svc.RemoveIngredient(c.Request.Context(), pantryID, ingredientID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type importIngredientsRequest struct {
	Text string `json:"text" binding:"required"`
}

// ImportIngredients parses a pasted grocery list into pantry items.
func (h *Handler) ImportIngredients(c *gin.Context) {
	pantryID, ok := h.pathUUID(c, "pantryID")
	if !ok {
		return
	}
	var req importIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	added, err := h.svc.ImportIngredients(c.Request.Context(), pantryID, req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

// ScanReceipt extracts grocery items from an uploaded receipt or fridge
// photo and stocks the pantry with them.
func (h *Handler) ScanReceipt(c *gin.Context) {
	pantryID, ok := h.pathUUID(c, "pantryID")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		h.respondError(c, errors.NewValidationError("an image file is required"))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxScanBytes+1))
	if err != nil {
		h.respondError(c, errors.NewValidationError("failed to read image"))
		return
	}
	if len(image) > maxScanBytes {
		h.respondError(c, errors.NewValidationError("image exceeds the 8MB limit"))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}

	added, err := h.svc.ScanReceipt(c.Request.Context(), pantryID, image, mimeType)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}
