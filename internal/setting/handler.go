// File: internal/setting/handler.go
package setting

import (
	"estatehub_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for setting handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new setting handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for setting operations. Reading is
// public; writing is for admins.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, adminRoleMW gin.HandlerFunc) {
	settings := router.Group("/settings")
	{
		settings.GET("/:key", h.get)
		settings.PUT("/:key", authMW, adminRoleMW, h.upsert)
	}
}

func (h *Handler) get(c *gin.Context) {
	setting, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Setting retrieved successfully.", setting)
}

func (h *Handler) upsert(c *gin.Context) {
	var req UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	setting, err := h.service.Upsert(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Setting updated successfully.", setting)
}
