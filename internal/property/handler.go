// File: internal/property/handler.go
package property

import (
	"errors"

	"estatehub_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for property handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new property handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for property operations.
// optionalAuthMW populates the user context when a token is present but
// lets anonymous requests through, so the detail route can show a
// pending property to its assigned user while hiding it from everyone
// else.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, optionalAuthMW, adminRoleMW gin.HandlerFunc) {
	props := router.Group("/properties")
	{
		props.GET("", optionalAuthMW, h.search)
		props.GET("/:id", optionalAuthMW, h.getByID)

		authenticated := props.Group("")
		authenticated.Use(authMW)
		{
			authenticated.GET("/assigned", h.getAssigned)
			authenticated.GET("/approved", h.getApproved)
			authenticated.POST("/:id/approve", h.approveAndPublish)
		}

		admin := props.Group("")
		admin.Use(authMW, adminRoleMW)
		{
			admin.POST("", h.create)
			admin.PUT("/:id", h.update)
			admin.DELETE("/:id", h.delete)
			admin.PATCH("/:id/homepage", h.setHomepage)
		}
	}

	adminGroup := router.Group("/admin/properties")
	adminGroup.Use(authMW, adminRoleMW)
	{
		adminGroup.GET("", h.adminSearch)
	}
}

func (h *Handler) search(c *gin.Context) {
	var query PropertySearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	query.Page, query.PageSize = common.GetPaginationParams(c)

	properties, pagination, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]PropertyResponse, len(properties))
	for i := range properties {
		responses[i] = ToPropertyResponse(&properties[i])
	}
	common.RespondPaginated(c, "Properties retrieved successfully.", responses, pagination)
}

func (h *Handler) adminSearch(c *gin.Context) {
	var query PropertySearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	query.Page, query.PageSize = common.GetPaginationParams(c)

	properties, pagination, err := h.service.AdminSearch(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]AdminPropertyResponse, len(properties))
	for i := range properties {
		responses[i] = ToAdminPropertyResponse(&properties[i])
	}
	common.RespondPaginated(c, "Properties retrieved successfully.", responses, pagination)
}

func (h *Handler) getByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	actorID := common.GetUserIDFromContext(c)
	actorRole := common.GetUserRoleFromContext(c)

	property, err := h.service.GetByID(c.Request.Context(), id, actorID, actorRole)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property retrieved successfully.", ToPropertyResponse(property))
}

func (h *Handler) create(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	actorID := common.GetUserIDFromContext(c)
	property, warning, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondCreated(c, "Property created successfully.", CreatePropertyResponse{
		Property: ToAdminPropertyResponse(property),
		Warning:  warning,
	})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	property, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property updated successfully.", ToAdminPropertyResponse(property))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) getAssigned(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	properties, err := h.service.GetAssignedToUser(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]PropertyResponse, len(properties))
	for i := range properties {
		responses[i] = ToPropertyResponse(&properties[i])
	}
	common.RespondOK(c, "Assigned properties retrieved successfully.", responses)
}

func (h *Handler) getApproved(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	properties, err := h.service.GetApprovedByUser(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]PropertyResponse, len(properties))
	for i := range properties {
		responses[i] = ToPropertyResponse(&properties[i])
	}
	common.RespondOK(c, "Approved properties retrieved successfully.", responses)
}

func (h *Handler) approveAndPublish(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	actorID := common.GetUserIDFromContext(c)
	actorRole := common.GetUserRoleFromContext(c)

	property, err := h.service.ApproveAndPublish(c.Request.Context(), id, actorID, actorRole)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property approved and published successfully.", ToPropertyResponse(property))
}

func (h *Handler) setHomepage(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req SetHomepageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	property, err := h.service.SetHomepage(c.Request.Context(), id, req.ShowOnHomepage)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Homepage visibility updated.", ToAdminPropertyResponse(property))
}

func (h *Handler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.logger.Warn("Invalid property ID format", zap.String("paramID", c.Param("id")))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid property ID format."))
		return uuid.Nil, false
	}
	return id, true
}
