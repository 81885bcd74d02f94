package handlers

import (
	"net/http"

	"github.com/pantrysage/v1/internal/domain/recipe"
	"github.com/pantrysage/v1/internal/ports/outbound"
	"github.com/pantrysage/v1/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Cart returns the current shopping cart and its running total.
func (h *Handler) Cart(c *gin.Context) {
	cart := h.svc.Cart()
	c.JSON(http.StatusOK, gin.H{
		"items": cart.Items,
		"total": cart.Total(),
	})
}

type addCartItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity string `json:"quantity"`
	Source   string `json:"source"`
}

// AddCartItem adds or merges one item in the cart.
func (h *Handler) AddCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	item, err := h.svc.AddCartItem(c.Request.Context(), req.Name, req.Quantity, req.Source)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// RemoveCartItem deletes an item from the cart.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	itemID, ok := h.pathUUID(c, "itemID")
	if !ok {
		return
	}
	if err := h.svc.RemoveCartItem(c.Request.Context(), itemID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleCartItem flips an item's checked state.
func (h *Handler) ToggleCartItem(c *gin.Context) {
	itemID, ok := h.pathUUID(c, "itemID")
	if !ok {
		return
	}
	if err := h.svc.ToggleCartItem(c.Request.Context(), itemID); err != nil {
		h.respondError(c, err)
		return
	}
	cart := h.svc.Cart()
	c.JSON(http.StatusOK, gin.H{"items": cart.Items})
}

// ExportMissing pushes a recipe's missing ingredients into the cart.
func (h *Handler) ExportMissing(c *gin.Context) {
	var r recipe.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	added, err := h.svc.ExportMissingIngredients(c.Request.Context(), r)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

type planShoppingRequest struct {
	Query string `json:"query" binding:"required"`
}

// PlanShopping builds multi-meal shopping concepts from one request.
func (h *Handler) PlanShopping(c *gin.Context) {
	var req planShoppingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	plans, err := h.svc.PlanShopping(c.Request.Context(), req.Query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// CommitShoppingPlan moves a chosen plan's items into the cart.
func (h *Handler) CommitShoppingPlan(c *gin.Context) {
	var plan outbound.ShoppingPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		h.respondError(c, errors.NewValidationError(err.Error()))
		return
	}

	added, err := h.svc.CommitShoppingPlan(c.Request.Context(), plan)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

// PlaceOrder converts the cart into an order and stocks the pantry.
func (h *Handler) PlaceOrder(c *gin.Context) {
	order, err := h.svc.PlaceOrder(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// Orders lists the order history, newest first.
func (h *Handler) Orders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": h.svc.Orders()})
}

// AdvanceOrder moves an order along its fulfillment progression.
func (h *Handler) AdvanceOrder(c *gin.Context) {
	orderID, ok := h.pathUUID(c, "orderID")
	if !ok {
		return
	}
	order, err := h.svc.AdvanceOrder(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels a non-terminal order.
func (h *Handler) CancelOrder(c *gin.Context) {
	orderID, ok := h.pathUUID(c, "orderID")
	if !ok {
		return
	}
	order, err := h.svc.CancelOrder(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
