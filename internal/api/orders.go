package api

import (
	"net/http"
	"sort"
	"strconv"

	"pos-service/internal/models"
	"pos-service/internal/service"

	"github.com/gin-gonic/gin"
)

// listOrders returns populated orders with in-memory filtering and
// pagination, plus the initialized-state count for the dashboard
func (h *Handler) listOrders(c *gin.Context) {
	filters := service.OrderListFilters{
		CustomerName:      c.Query("customerName"),
		CustomerNameMode:  c.Query("customerNameFilterMatchMode"),
		CustomerPhone:     c.Query("customerPhone"),
		CustomerPhoneMode: c.Query("customerPhoneFilterMatchMode"),
		Date:              c.Query("date"),
		DateMode:          c.Query("dateFilterMatchMode"),
		StatusChangeDate:  c.Query("statusChangeDate"),
		StatusChangeMode:  c.Query("statusChangeDateFilterMatchMode"),
		OrderStatusIDMode: c.Query("orderStatusIdFilterMatchMode"),
		TotalPriceMode:    c.Query("totalPriceFilterMatchMode"),
	}

	if raw := c.Query("totalPrice"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid totalPrice"})
			return
		}
		filters.TotalPrice = &price
	}
	if raw := c.Query("orderStatusId"); raw != "" {
		statusID, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid orderStatusId"})
			return
		}
		filters.OrderStatusID = &statusID
	}
	filters.PageNumber, _ = strconv.Atoi(c.DefaultQuery("pageNumber", "0"))
	filters.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "5"))

	result, err := h.orders.ListOrders(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// itemsPreparations reports the restock shortfall per stock item
// across all initialized orders. The route path keeps the historical
// client-facing spelling.
func (h *Handler) itemsPreparations(c *gin.Context) {
	result, err := h.orders.ItemsPreparations(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// getOrder returns a single populated order
func (h *Handler) getOrder(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// createOrder handles order creation
func (h *Handler) createOrder(c *gin.Context) {
	var req service.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), &req, principalFrom(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// updateOrder handles order edits and status transitions
func (h *Handler) updateOrder(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	order, err := h.orders.UpdateOrder(c.Request.Context(), orderID, &req, principalFrom(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// deleteOrder removes an order
func (h *Handler) deleteOrder(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.DeleteOrder(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// listOrderStatuses returns the fixed status reference data in id order
func (h *Handler) listOrderStatuses(c *gin.Context) {
	ids := make([]int, 0, len(models.OrderStatusDetails))
	for id := range models.OrderStatusDetails {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	statuses := make([]models.OrderStatusDetail, 0, len(ids))
	for _, id := range ids {
		statuses = append(statuses, models.OrderStatusDetails[id])
	}
	c.JSON(http.StatusOK, statuses)
}

// getOrderStatus returns a single status by id
func (h *Handler) getOrderStatus(c *gin.Context) {
	statusID, ok := idParam(c, "id")
	if !ok {
		return
	}
	status, found := models.OrderStatusDetails[int(statusID)]
	if !found {
		h.respondError(c, models.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, status)
}

// statistics builds the dashboard summary. The day-range options
// default to a week.
func (h *Handler) statistics(c *gin.Context) {
	mostSoldDays, err := strconv.Atoi(c.DefaultQuery("selectedMostSoldStockItemOption", "7"))
	if err != nil || mostSoldDays < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid selectedMostSoldStockItemOption"})
		return
	}
	newCustomersDays, err := strconv.Atoi(c.DefaultQuery("selectedNewlyAddedUsersCountOption", "7"))
	if err != nil || newCustomersDays < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid selectedNewlyAddedUsersCountOption"})
		return
	}

	stats, err := h.orders.Statistics(c.Request.Context(), mostSoldDays, newCustomersDays)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
