// File: internal/assistant/handler.go
package assistant

import (
	"errors"

	"estatehub_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for assistant handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new assistant handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for the assistant chat widget.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	assistant := router.Group("/assistant")
	{
		assistant.POST("/messages", h.respond)
	}
}

func (h *Handler) respond(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	reply, err := h.service.Respond(c.Request.Context(), req.Message)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Reply generated successfully.", reply)
}
