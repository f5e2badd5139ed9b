// File: internal/filestorage/service.go
package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"estatehub_backend/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileStorageService stores uploaded files on local disk and maps
// between public URLs and on-disk paths.
type FileStorageService struct {
	basePath string
	baseURL  string
	logger   *zap.Logger
}

// NewFileStorageService creates a new FileStorageService rooted at the
// configured storage path.
func NewFileStorageService(cfg *config.Config, logger *zap.Logger) (*FileStorageService, error) {
	if cfg.StorageBasePath == "" {
		return nil, fmt.Errorf("storage path cannot be empty")
	}
	if err := os.MkdirAll(cfg.StorageBasePath, os.ModePerm); err != nil {
		logger.Error("Failed to create storage path directory", zap.String("path", cfg.StorageBasePath), zap.Error(err))
		return nil, fmt.Errorf("failed to create storage path %s: %w", cfg.StorageBasePath, err)
	}
	logger.Info("FileStorageService initialized",
		zap.String("basePath", cfg.StorageBasePath),
		zap.String("baseURL", cfg.StorageBaseURL),
	)
	return &FileStorageService{
		basePath: cfg.StorageBasePath,
		baseURL:  strings.TrimRight(cfg.StorageBaseURL, "/"),
		logger:   logger,
	}, nil
}

// SaveUploadedFile saves a multipart file under subDir with a generated
// unique filename. Returns the path relative to the storage root, e.g.
// "properties/uuid.jpg".
func (s *FileStorageService) SaveUploadedFile(fileHeader *multipart.FileHeader, subDir string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("fileHeader cannot be nil")
	}

	src, err := fileHeader.Open()
	if err != nil {
		s.logger.Error("Failed to open uploaded file", zap.Error(err))
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	extension := filepath.Ext(filepath.Base(fileHeader.Filename))
	if extension == "" {
		// Fall back to the declared content type when the filename
		// carries no extension.
		contentType := fileHeader.Header.Get("Content-Type")
		switch {
		case strings.HasPrefix(contentType, "image/jpeg"):
			extension = ".jpg"
		case strings.HasPrefix(contentType, "image/png"):
			extension = ".png"
		case strings.HasPrefix(contentType, "image/webp"):
			extension = ".webp"
		case strings.HasPrefix(contentType, "image/gif"):
			extension = ".gif"
		default:
			return "", fmt.Errorf("unsupported file type or missing extension: %s", contentType)
		}
	}
	uniqueFilename := uuid.New().String() + extension

	cleanSubDir := filepath.Clean(subDir)
	if strings.HasPrefix(cleanSubDir, "..") {
		s.logger.Error("Invalid subDir, attempts to navigate up", zap.String("subDir", subDir))
		return "", fmt.Errorf("invalid subDir path")
	}

	destinationDir := filepath.Join(s.basePath, cleanSubDir)
	if err := os.MkdirAll(destinationDir, os.ModePerm); err != nil {
		s.logger.Error("Failed to create sub-directory for file storage", zap.String("path", destinationDir), zap.Error(err))
		return "", fmt.Errorf("failed to create directory %s: %w", destinationDir, err)
	}

	destinationPath := filepath.Join(destinationDir, uniqueFilename)

	dst, err := os.Create(destinationPath)
	if err != nil {
		s.logger.Error("Failed to create destination file", zap.String("path", destinationPath), zap.Error(err))
		return "", fmt.Errorf("failed to create file %s: %w", destinationPath, err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		s.logger.Error("Failed to copy uploaded file to destination", zap.String("path", destinationPath), zap.Error(err))
		os.Remove(destinationPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	s.logger.Info("File saved successfully", zap.String("path", destinationPath))
	return filepath.ToSlash(filepath.Join(cleanSubDir, uniqueFilename)), nil
}

// DeleteFile deletes a file given its path relative to the storage
// root. A missing file is not an error.
func (s *FileStorageService) DeleteFile(relativePath string) error {
	if relativePath == "" {
		return fmt.Errorf("relative path cannot be empty")
	}

	cleanRelativePath := filepath.Clean(relativePath)
	if strings.Contains(cleanRelativePath, "..") {
		s.logger.Warn("Attempt to delete file with path traversal", zap.String("relativePath", relativePath))
		return fmt.Errorf("invalid file path for deletion")
	}

	fullPath := filepath.Join(s.basePath, cleanRelativePath)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		s.logger.Warn("Attempt to delete non-existent file", zap.String("path", fullPath))
		return nil
	}

	if err := os.Remove(fullPath); err != nil {
		s.logger.Error("Failed to delete file", zap.String("path", fullPath), zap.Error(err))
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}

	s.logger.Info("File deleted successfully", zap.String("path", fullPath))
	return nil
}

// PublicURL returns the URL under which a stored file is served.
func (s *FileStorageService) PublicURL(relativePath string) string {
	return s.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(relativePath), "/")
}

// RelativePathFromURL maps a public file URL back to its storage
// relative path. The second return value is false for URLs hosted
// elsewhere, which callers should leave alone.
func (s *FileStorageService) RelativePathFromURL(url string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	relative := strings.TrimPrefix(url, prefix)
	if relative == "" {
		return "", false
	}
	return relative, true
}
