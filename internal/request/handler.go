// File: internal/request/handler.go
package request

import (
	"context"
	"errors"

	"estatehub_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for purchase-request handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new purchase-request handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for purchase-request operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, adminRoleMW gin.HandlerFunc) {
	requests := router.Group("/requests")
	requests.Use(authMW)
	{
		requests.POST("", h.create)
		requests.GET("", h.listOwn)
		requests.GET("/:id", h.getByID)
	}

	admin := router.Group("/admin/requests")
	admin.Use(authMW, adminRoleMW)
	{
		admin.GET("", h.adminList)
		admin.GET("/stats", h.stats)
		admin.POST("/:id/approve", h.approve)
		admin.POST("/:id/reject", h.reject)
		admin.PATCH("/:id/status", h.updateStatus)
	}
}

func (h *Handler) create(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	userID := common.GetUserIDFromContext(c)
	email := common.GetUserEmailFromContext(c)

	purchaseRequest, err := h.service.Create(c.Request.Context(), userID, email, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Purchase request submitted successfully.", ToRequestResponse(purchaseRequest))
}

func (h *Handler) listOwn(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	page, pageSize := common.GetPaginationParams(c)

	requests, pagination, err := h.service.GetForUser(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]RequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToRequestResponse(&requests[i])
	}
	common.RespondPaginated(c, "Purchase requests retrieved successfully.", responses, pagination)
}

func (h *Handler) getByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	actorID := common.GetUserIDFromContext(c)
	actorRole := common.GetUserRoleFromContext(c)

	purchaseRequest, err := h.service.GetByID(c.Request.Context(), id, actorID, actorRole)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Purchase request retrieved successfully.", ToRequestResponse(purchaseRequest))
}

func (h *Handler) adminList(c *gin.Context) {
	var query RequestListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	query.Page, query.PageSize = common.GetPaginationParams(c)

	requests, pagination, err := h.service.AdminList(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]RequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToRequestResponse(&requests[i])
	}
	common.RespondPaginated(c, "Purchase requests retrieved successfully.", responses, pagination)
}

func (h *Handler) stats(c *gin.Context) {
	counts, err := h.service.Stats(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Purchase request stats retrieved successfully.", counts)
}

func (h *Handler) approve(c *gin.Context) {
	h.decide(c, h.service.Approve, "Purchase request approved.")
}

func (h *Handler) reject(c *gin.Context) {
	h.decide(c, h.service.Reject, "Purchase request rejected.")
}

type decideFunc func(ctx context.Context, id uuid.UUID, adminID uuid.UUID, responseText string) (*PurchaseRequest, error)

func (h *Handler) decide(c *gin.Context, decide decideFunc, message string) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	// The response text is optional; an empty body is a valid decision.
	var req DecideRequestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) {
				common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
				return
			}
			common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
			return
		}
	}

	adminID := common.GetUserIDFromContext(c)
	purchaseRequest, err := decide(c.Request.Context(), id, adminID, req.ResponseText)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, message, ToRequestResponse(purchaseRequest))
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	adminID := common.GetUserIDFromContext(c)
	purchaseRequest, err := h.service.UpdateStatus(c.Request.Context(), id, adminID, req.Status)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Purchase request status updated.", ToRequestResponse(purchaseRequest))
}

func (h *Handler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request ID format."))
		return uuid.Nil, false
	}
	return id, true
}
