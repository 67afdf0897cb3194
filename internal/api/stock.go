package api

import (
	"net/http"

	"pos-service/internal/service"

	"github.com/gin-gonic/gin"
)

// listStockItems returns live stock items, optionally filtered by a
// name search term
func (h *Handler) listStockItems(c *gin.Context) {
	items, err := h.stocks.ListStockItems(c.Request.Context(), c.Query("searchTerm"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// getStockItem returns a single stock item
func (h *Handler) getStockItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := h.stocks.GetStockItem(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// createStockItem adds a catalog entry
func (h *Handler) createStockItem(c *gin.Context) {
	var req service.StockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	actorID := principalFrom(c).UserID
	item, err := h.stocks.CreateStockItem(c.Request.Context(), &req, &actorID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// updateStockItem overwrites a catalog entry
func (h *Handler) updateStockItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.StockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	actorID := principalFrom(c).UserID
	item, err := h.stocks.UpdateStockItem(c.Request.Context(), id, &req, &actorID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// deleteStockItem soft-deletes a catalog entry
func (h *Handler) deleteStockItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	actorID := principalFrom(c).UserID
	item, err := h.stocks.DeleteStockItem(c.Request.Context(), id, &actorID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
