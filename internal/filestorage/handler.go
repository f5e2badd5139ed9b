// File: internal/filestorage/handler.go
package filestorage

import (
	"errors"

	"estatehub_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Admin-side upload surface. Property images and the user-manual
// document are uploaded here first; the returned URL is then attached
// to a property or a setting.

// Handler struct holds dependencies for file upload handlers.
type Handler struct {
	service *FileStorageService
	logger  *zap.Logger
}

// NewHandler creates a new filestorage handler.
func NewHandler(service *FileStorageService, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// DeleteUploadRequest identifies a stored file by its public URL.
type DeleteUploadRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// RegisterRoutes sets up the upload routes. Both require an admin.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	uploads := router.Group("/uploads")
	uploads.Use(authMW, adminRoleMW)
	{
		uploads.POST("", h.upload)
		uploads.DELETE("", h.remove)
	}
}

func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("A 'file' form field is required."))
		return
	}

	subDir := c.DefaultPostForm("dir", "properties")

	relativePath, err := h.service.SaveUploadedFile(fileHeader, subDir)
	if err != nil {
		h.logger.Error("File upload failed", zap.String("filename", fileHeader.Filename), zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	common.RespondCreated(c, "File uploaded successfully.", UploadResponse{
		URL:  h.service.PublicURL(relativePath),
		Path: relativePath,
	})
}

func (h *Handler) remove(c *gin.Context) {
	var req DeleteUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	relativePath, ok := h.service.RelativePathFromURL(req.URL)
	if !ok {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("URL does not point at a stored file."))
		return
	}

	if err := h.service.DeleteFile(relativePath); err != nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not delete the stored file."))
		return
	}
	common.RespondNoContent(c)
}
