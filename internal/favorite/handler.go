// File: internal/favorite/handler.go
package favorite

import (
	"estatehub_backend/internal/common"
	"estatehub_backend/internal/property"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for favorite handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new favorite handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for favorite operations. All routes
// require authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	favorites := router.Group("/favorites")
	favorites.Use(authMW)
	{
		favorites.GET("", h.list)
		favorites.GET("/ids", h.listIDs)
		favorites.POST("/:propertyId", h.add)
		favorites.DELETE("/:propertyId", h.remove)
		favorites.POST("/:propertyId/toggle", h.toggle)
	}
}

func (h *Handler) list(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)

	properties, err := h.service.ListProperties(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]property.PropertyResponse, len(properties))
	for i := range properties {
		responses[i] = property.ToPropertyResponse(&properties[i])
	}
	common.RespondOK(c, "Favorites retrieved successfully.", responses)
}

func (h *Handler) listIDs(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)

	ids, err := h.service.ListPropertyIDs(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Favorite IDs retrieved successfully.", gin.H{"property_ids": ids})
}

func (h *Handler) add(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("propertyId"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid property ID format."))
		return
	}

	userID := common.GetUserIDFromContext(c)
	if err := h.service.Add(c.Request.Context(), userID, propertyID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Favorite added successfully.", ToggleResponse{
		PropertyID: propertyID,
		IsFavorite: true,
	})
}

func (h *Handler) remove(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("propertyId"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid property ID format."))
		return
	}

	userID := common.GetUserIDFromContext(c)
	if err := h.service.Remove(c.Request.Context(), userID, propertyID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) toggle(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("propertyId"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid property ID format."))
		return
	}

	userID := common.GetUserIDFromContext(c)
	isFavorite, err := h.service.Toggle(c.Request.Context(), userID, propertyID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Favorite toggled successfully.", ToggleResponse{
		PropertyID: propertyID,
		IsFavorite: isFavorite,
	})
}
