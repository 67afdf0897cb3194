package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type messageRequest struct {
	Message string `json:"message" binding:"required"`
}

// listUsersSessions returns every user with their session records
func (h *Handler) listUsersSessions(c *gin.Context) {
	result, err := h.sessions.UsersSessions(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// messageSession queues a message for one session
func (h *Handler) messageSession(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	h.sessions.MessageSession(c.Param("sessionId"), req.Message)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// messageUserSessions queues a message for all of a user's sessions
func (h *Handler) messageUserSessions(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	h.sessions.MessageUser(userID, req.Message)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// closeSession force-closes one live connection
func (h *Handler) closeSession(c *gin.Context) {
	h.sessions.CloseSession(c.Request.Context(), c.Param("sessionId"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// closeUserSessions force-closes all of a user's live connections
func (h *Handler) closeUserSessions(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}
	h.sessions.CloseUserSessions(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// broadcastMessage queues a message for every live session
func (h *Handler) broadcastMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	h.sessions.Broadcast(req.Message)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
