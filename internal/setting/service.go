// File: internal/setting/service.go
package setting

import (
	"context"
	"regexp"
	"strings"

	"estatehub_backend/internal/common"

	"go.uber.org/zap"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_]{1,100}$`)

// Service defines the interface for setting business logic.
type Service interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, key, value string) (*Setting, error)
}

// ServiceImplementation implements the setting Service interface.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new setting service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImplementation{repo: repo, logger: logger}
}

// Get returns a setting by key.
func (s *ServiceImplementation) Get(ctx context.Context, key string) (*Setting, error) {
	if !keyPattern.MatchString(key) {
		return nil, common.NewBadRequestError("Invalid setting key.")
	}
	return s.repo.Get(ctx, key)
}

// Upsert writes a setting value.
func (s *ServiceImplementation) Upsert(ctx context.Context, key, value string) (*Setting, error) {
	if !keyPattern.MatchString(key) {
		return nil, common.NewBadRequestError("Invalid setting key.")
	}
	if strings.TrimSpace(value) == "" {
		return nil, common.NewBadRequestError("Setting value cannot be empty.")
	}

	setting := &Setting{Key: key, Value: value}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, err
	}

	s.logger.Info("Setting updated", zap.String("key", key))
	return setting, nil
}
