package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pos-service/internal/auth"
	"pos-service/internal/models"
	"pos-service/internal/service"
	"pos-service/internal/util"
	"pos-service/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	orders    *service.OrderService
	stocks    *service.StockService
	customers *service.CustomerService
	users     *service.UserService
	sessions  *service.SessionAdminService
	hub       *ws.Hub
	verifier  *auth.Verifier
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orders *service.OrderService,
	stocks *service.StockService,
	customers *service.CustomerService,
	users *service.UserService,
	sessions *service.SessionAdminService,
	hub *ws.Hub,
	verifier *auth.Verifier,
) *Handler {
	return &Handler{
		orders:    orders,
		stocks:    stocks,
		customers: customers,
		users:     users,
		sessions:  sessions,
		hub:       hub,
		verifier:  verifier,
		logger:    util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/ws", h.serveWebSocket)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.login)
		authGroup.POST("/register", h.register)
		authGroup.POST("/logout", h.logout)
	}

	// Status reference data is static and served without auth, like
	// the customer-facing clients expect.
	api.GET("/orderStatuses", h.listOrderStatuses)
	api.GET("/orderStatuses/:id", h.getOrderStatus)

	authed := api.Group("", authMiddleware(h.verifier))

	orders := authed.Group("/orders", requireAction(auth.ActionManageOrders))
	{
		orders.GET("/itemsPreperations", h.itemsPreparations)
		orders.GET("", h.listOrders)
		orders.GET("/:id", h.getOrder)
		orders.POST("", h.createOrder)
		orders.PUT("/:id", h.updateOrder)
		orders.DELETE("/:id", h.deleteOrder)
	}

	stockItems := authed.Group("/stockItems", requireAction(auth.ActionManageStockItems))
	{
		stockItems.GET("", h.listStockItems)
		stockItems.GET("/:id", h.getStockItem)
		stockItems.POST("", h.createStockItem)
		stockItems.PUT("/:id", h.updateStockItem)
		stockItems.DELETE("/:id", h.deleteStockItem)
	}

	customers := authed.Group("/customers", requireAction(auth.ActionManageCustomers))
	{
		customers.GET("", h.listCustomers)
		customers.GET("/:id", h.getCustomer)
		customers.POST("", h.createCustomer)
		customers.PUT("/:id", h.updateCustomer)
		customers.DELETE("/:id", h.deleteCustomer)
	}

	users := authed.Group("/users")
	{
		users.GET("/me", h.getMe)
		managed := users.Group("", requireAction(auth.ActionManageUsers))
		{
			managed.GET("", h.listUsers)
			managed.GET("/:id", h.getUser)
			managed.POST("", h.createUser)
			managed.PUT("/:id", h.updateUser)
			managed.DELETE("/:id", h.deleteUser)
		}
	}

	authed.GET("/statistics", requireAction(auth.ActionViewStatistics), h.statistics)

	master := authed.Group("/masteruser", requireAction(auth.ActionManageSessions))
	{
		master.GET("/users-sessions", h.listUsersSessions)
		master.POST("/session/:sessionId/message", h.messageSession)
		master.POST("/user/:userId/message", h.messageUserSessions)
		master.DELETE("/session/:sessionId", h.closeSession)
		master.DELETE("/user/:userId/sessions", h.closeUserSessions)
		master.POST("/broadcast", h.broadcastMessage)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError translates domain errors to HTTP responses. Stock
// shortfalls stay structured and non-5xx so clients can react.
func (h *Handler) respondError(c *gin.Context, err error) {
	var stockErr *models.InsufficientStockError
	var validationErr *models.ValidationError

	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         "insufficient stock",
			"message":       stockErr.Error(),
			"stockItemId":   stockErr.StockItemID,
			"stockItemName": stockErr.Name,
			"available":     stockErr.Available,
			"requested":     stockErr.Requested,
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Reason,
			"field": validationErr.Field,
		})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
	case errors.Is(err, models.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
	}
}

// idParam parses a numeric path parameter
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
