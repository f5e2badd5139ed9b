// File: internal/favorite/service.go
package favorite

import (
	"context"

	"estatehub_backend/internal/property"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PropertyProvider hydrates saved property IDs into full records. The
// property repository satisfies it.
type PropertyProvider interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]property.Property, error)
}

// Service defines the interface for favorite business logic.
type Service interface {
	Add(ctx context.Context, userID, propertyID uuid.UUID) error
	Remove(ctx context.Context, userID, propertyID uuid.UUID) error
	Toggle(ctx context.Context, userID, propertyID uuid.UUID) (bool, error)
	IsFavorite(ctx context.Context, userID, propertyID uuid.UUID) (bool, error)
	ListPropertyIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListProperties(ctx context.Context, userID uuid.UUID) ([]property.Property, error)
	OnUserChanged(userID uuid.UUID)
}

// ServiceImplementation implements the favorite Service interface.
type ServiceImplementation struct {
	repo       Repository
	properties PropertyProvider
	cache      *MembershipCache
	logger     *zap.Logger
}

// NewService creates a new favorite service.
func NewService(repo Repository, properties PropertyProvider, cache *MembershipCache, logger *zap.Logger) Service {
	return &ServiceImplementation{
		repo:       repo,
		properties: properties,
		cache:      cache,
		logger:     logger,
	}
}

// Add saves the pair. Saving an already saved property is a no-op.
func (s *ServiceImplementation) Add(ctx context.Context, userID, propertyID uuid.UUID) error {
	if err := s.repo.Add(ctx, userID, propertyID); err != nil {
		return err
	}
	s.refreshOrInvalidate(ctx, userID)
	return nil
}

// Remove drops the pair. Removing a property that was never saved is a
// no-op.
func (s *ServiceImplementation) Remove(ctx context.Context, userID, propertyID uuid.UUID) error {
	if err := s.repo.Remove(ctx, userID, propertyID); err != nil {
		return err
	}
	s.refreshOrInvalidate(ctx, userID)
	return nil
}

// Toggle flips membership for the pair and returns the new state. The
// database decides the current state; the cache is refreshed from a
// post-mutation refetch rather than patched in place.
func (s *ServiceImplementation) Toggle(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	exists, err := s.repo.Exists(ctx, userID, propertyID)
	if err != nil {
		return false, err
	}

	if exists {
		err = s.repo.Remove(ctx, userID, propertyID)
	} else {
		err = s.repo.Add(ctx, userID, propertyID)
	}
	if err != nil {
		return false, err
	}

	s.refreshOrInvalidate(ctx, userID)
	return !exists, nil
}

func (s *ServiceImplementation) refreshOrInvalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.refreshCache(ctx, userID); err != nil {
		// A stale mirror self-heals on the next read; dropping it is
		// enough.
		s.logger.Warn("Failed to refresh favorites cache after mutation",
			zap.String("userID", userID.String()), zap.Error(err))
		s.cache.Invalidate(userID)
	}
}

// IsFavorite answers membership from the cache, falling back to the
// database and warming the cache on a miss.
func (s *ServiceImplementation) IsFavorite(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	if set, ok := s.cache.Get(userID); ok {
		_, member := set[propertyID]
		return member, nil
	}

	ids, err := s.repo.ListPropertyIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	s.cache.Put(userID, ids)

	for _, id := range ids {
		if id == propertyID {
			return true, nil
		}
	}
	return false, nil
}

// ListPropertyIDs returns the user's saved property IDs from the
// database and refreshes the cache along the way.
func (s *ServiceImplementation) ListPropertyIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.repo.ListPropertyIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Put(userID, ids)
	return ids, nil
}

// ListProperties hydrates the user's saved properties. Rows deleted
// since saving simply drop out of the result.
func (s *ServiceImplementation) ListProperties(ctx context.Context, userID uuid.UUID) ([]property.Property, error) {
	ids, err := s.ListPropertyIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []property.Property{}, nil
	}

	rows, err := s.properties.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Preserve the saved-at ordering from the ID list.
	byID := make(map[uuid.UUID]*property.Property, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	ordered := make([]property.Property, 0, len(rows))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, *p)
		}
	}
	return ordered, nil
}

// OnUserChanged drops the cached set for a user whose session identity
// changed, so the next read reflects the new account.
func (s *ServiceImplementation) OnUserChanged(userID uuid.UUID) {
	s.cache.Invalidate(userID)
}

func (s *ServiceImplementation) refreshCache(ctx context.Context, userID uuid.UUID) error {
	ids, err := s.repo.ListPropertyIDs(ctx, userID)
	if err != nil {
		return err
	}
	s.cache.Put(userID, ids)
	return nil
}
