// File: internal/user/handler.go
package user

import (
	"errors"

	"estatehub_backend/internal/common"
	"estatehub_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service *ServiceImplementation
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service *ServiceImplementation, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for user operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	userGroup := router.Group("/users")
	userGroup.Use(authMW)
	{
		userGroup.GET("/me", h.getMe)
		userGroup.PUT("/me", h.updateMe)
		userGroup.GET("/:id", h.getUserByID)
	}
}

func (h *Handler) getMe(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		h.logger.Error("User ID not found in context for /me", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}
	usr, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User profile retrieved successfully.", shared.ToUserResponse(usr))
}

func (h *Handler) updateMe(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	usr, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User profile updated successfully.", shared.ToUserResponse(usr))
}

func (h *Handler) getUserByID(c *gin.Context) {
	paramID := c.Param("id")
	userIDToFetch, err := uuid.Parse(paramID)
	if err != nil {
		h.logger.Warn("Invalid user ID format in URL parameter", zap.String("paramID", paramID), zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid user ID format."))
		return
	}

	requestingUserID := common.GetUserIDFromContext(c)
	requestingUserRole := common.GetUserRoleFromContext(c)
	if requestingUserRole != common.RoleAdmin && requestingUserID != userIDToFetch {
		h.logger.Warn("User attempting to fetch another user's profile without admin rights",
			zap.String("requestingUserID", requestingUserID.String()),
			zap.String("targetUserID", userIDToFetch.String()))
		common.RespondWithError(c, common.ErrForbidden.WithDetails("You are not authorized to view this profile."))
		return
	}

	usr, err := h.service.GetUserByID(c.Request.Context(), userIDToFetch)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User retrieved successfully.", shared.ToUserResponse(usr))
}
