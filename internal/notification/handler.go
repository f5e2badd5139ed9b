// File: internal/notification/handler.go
package notification

import (
	"estatehub_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for notification handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new notification handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for notification operations. All
// routes require authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	notifications := router.Group("/notifications")
	notifications.Use(authMW)
	{
		notifications.GET("", h.list)
		notifications.GET("/unread-count", h.unreadCount)
		notifications.POST("/:id/read", h.markAsRead)
		notifications.POST("/read-all", h.markAllAsRead)
	}
}

func (h *Handler) list(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	page, pageSize := common.GetPaginationParams(c)

	// The surface defaults to unread; read history stays reachable
	// with include_read=true.
	unreadOnly := c.DefaultQuery("include_read", "false") != "true"

	notifications, pagination, err := h.service.GetForUser(c.Request.Context(), userID, unreadOnly, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Notifications retrieved successfully.", notifications, pagination)
}

func (h *Handler) unreadCount(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)

	count, err := h.service.CountUnread(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Unread count retrieved successfully.", gin.H{"unread_count": count})
}

func (h *Handler) markAsRead(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid notification ID format."))
		return
	}

	userID := common.GetUserIDFromContext(c)
	if err := h.service.MarkAsRead(c.Request.Context(), notificationID, userID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Notification marked as read.", nil)
}

func (h *Handler) markAllAsRead(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)

	count, err := h.service.MarkAllAsRead(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "All notifications marked as read.", gin.H{"marked_read": count})
}
