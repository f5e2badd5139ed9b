// File: internal/property/service.go
package property

import (
	"context"
	"fmt"
	"strings"
	"time"

	"estatehub_backend/internal/common"
	"estatehub_backend/internal/config"
	"estatehub_backend/internal/filestorage"
	"estatehub_backend/internal/notification"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// SearchIndexer mirrors publicly visible properties into a search
// backend. Implementations may be disabled, in which case queries fall
// back to the database.
type SearchIndexer interface {
	Enabled() bool
	Index(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	SearchIDs(ctx context.Context, term string, limit int) ([]uuid.UUID, error)
}

// Service defines the interface for property-related business logic.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, req CreatePropertyRequest) (*Property, string, error)
	GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*Property, error)
	Update(ctx context.Context, id uuid.UUID, req UpdatePropertyRequest) (*Property, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query PropertySearchQuery) ([]Property, *common.Pagination, error)
	AdminSearch(ctx context.Context, query PropertySearchQuery) ([]Property, *common.Pagination, error)
	GetAssignedToUser(ctx context.Context, userID uuid.UUID) ([]Property, error)
	GetApprovedByUser(ctx context.Context, userID uuid.UUID) ([]Property, error)
	ApproveAndPublish(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*Property, error)
	SetHomepage(ctx context.Context, id uuid.UUID, showOnHomepage bool) (*Property, error)
	ReindexAll(ctx context.Context) (int, error)
}

// ServiceImplementation implements the property Service interface.
type ServiceImplementation struct {
	repo          Repository
	resolver      *AssignmentResolver
	storage       *filestorage.FileStorageService
	indexer       SearchIndexer
	notifications notification.Service
	cfg           *config.Config
	logger        *zap.Logger
}

// NewService creates a new property service.
func NewService(
	repo Repository,
	resolver *AssignmentResolver,
	storage *filestorage.FileStorageService,
	indexer SearchIndexer,
	notifications notification.Service,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &ServiceImplementation{
		repo:          repo,
		resolver:      resolver,
		storage:       storage,
		indexer:       indexer,
		notifications: notifications,
		cfg:           cfg,
		logger:        logger,
	}
}

// Create handles property creation, including the private-assignment
// policy: a resolved target puts the property in pending; a failed
// lookup publishes it immediately and returns an operator warning.
func (s *ServiceImplementation) Create(ctx context.Context, actorID uuid.UUID, req CreatePropertyRequest) (*Property, string, error) {
	resolution, err := s.resolver.Resolve(ctx, req.AssignedToEmail, req.AssignedToUsername)
	if err != nil {
		s.logger.Error("Assignment resolution failed", zap.Error(err))
		return nil, "", common.ErrInternalServer.WithDetails("Could not resolve the assignment target.")
	}

	now := time.Now()
	property := &Property{
		BaseModel: common.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:            req.Title,
		Slug:             slug.Make(req.Title),
		Description:      req.Description,
		Price:            req.Price,
		Location:         req.Location,
		Bedrooms:         req.Bedrooms,
		Bathrooms:        req.Bathrooms,
		Size:             req.Size,
		Amenities:        req.Amenities,
		Type:             req.Type,
		YearBuilt:        req.YearBuilt,
		Images:           req.Images,
		ShowOnHomepage:   req.ShowOnHomepage,
		AssignmentStatus: StatusPublished,
		CreatedByID:      actorID,
	}

	if email := strings.TrimSpace(req.AssignedToEmail); email != "" {
		property.AssignedToEmail = &email
	}
	if username := strings.TrimSpace(req.AssignedToUsername); username != "" {
		property.AssignedToUsername = &username
	}

	if resolution.Matched {
		targetID := resolution.UserID
		property.AssignmentStatus = StatusPending
		property.AssignedToUserID = &targetID
		property.AssignedAt = &now
	}

	if err := s.repo.Create(ctx, property); err != nil {
		return nil, "", err
	}

	s.syncIndex(ctx, property)

	if resolution.Matched {
		s.notifyAssignment(ctx, property)
	}

	s.logger.Info("Property created",
		zap.String("propertyID", property.ID.String()),
		zap.String("status", string(property.AssignmentStatus)),
		zap.Bool("assigned", resolution.Matched),
	)
	return property, resolution.Warning, nil
}

// notifyAssignment tells the assigned user a property is waiting for
// their approval. The property record is already durable; a failed
// notification is logged, not propagated.
func (s *ServiceImplementation) notifyAssignment(ctx context.Context, p *Property) {
	if p.AssignedToUserID == nil {
		return
	}
	propertyID := p.ID
	_, err := s.notifications.Create(ctx, notification.CreateNotificationInput{
		UserID:            *p.AssignedToUserID,
		Type:              notification.PropertyAssigned,
		Message:           fmt.Sprintf("A property has been assigned to you: %s. Review and approve it to claim it.", p.Title),
		RelatedPropertyID: &propertyID,
	})
	if err != nil {
		s.logger.Warn("Failed to create assignment notification",
			zap.String("propertyID", p.ID.String()),
			zap.String("userID", p.AssignedToUserID.String()),
			zap.Error(err),
		)
	}
}

// GetByID returns a property. Pending properties are visible only to the
// assigned user and admins.
func (s *ServiceImplementation) GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*Property, error) {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if property.AssignmentStatus == StatusPending && actorRole != common.RoleAdmin {
		if property.AssignedToUserID == nil || *property.AssignedToUserID != actorID {
			return nil, common.ErrNotFound.WithDetails("Property not found.")
		}
	}
	return property, nil
}

// Update applies an admin edit to the descriptive fields. Assignment
// fields transition only through the creation and approval paths.
func (s *ServiceImplementation) Update(ctx context.Context, id uuid.UUID, req UpdatePropertyRequest) (*Property, error) {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		property.Title = *req.Title
		property.Slug = slug.Make(*req.Title)
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if req.Price != nil {
		property.Price = *req.Price
	}
	if req.Location != nil {
		property.Location = *req.Location
	}
	if req.Bedrooms != nil {
		property.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		property.Bathrooms = *req.Bathrooms
	}
	if req.Size != nil {
		property.Size = *req.Size
	}
	if req.Amenities != nil {
		property.Amenities = req.Amenities
	}
	if req.Type != nil {
		property.Type = *req.Type
	}
	if req.YearBuilt != nil {
		property.YearBuilt = *req.YearBuilt
	}
	if req.Images != nil {
		property.Images = req.Images
	}
	property.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, property); err != nil {
		return nil, err
	}

	s.syncIndex(ctx, property)
	return property, nil
}

// Delete removes a property and its stored images. Any storage failure
// aborts the whole deletion so the metadata row never outlives a
// half-cleaned blob set.
func (s *ServiceImplementation) Delete(ctx context.Context, id uuid.UUID) error {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	for _, imageURL := range property.Images {
		relativePath, ok := s.storage.RelativePathFromURL(imageURL)
		if !ok {
			// Externally hosted image, nothing for us to clean up.
			continue
		}
		if err := s.storage.DeleteFile(relativePath); err != nil {
			s.logger.Error("Aborting property deletion: image removal failed",
				zap.String("propertyID", id.String()),
				zap.String("image", relativePath),
				zap.Error(err),
			)
			return common.ErrInternalServer.WithDetails(
				fmt.Sprintf("Failed to delete stored image %q. The property was not deleted.", relativePath))
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.indexer != nil && s.indexer.Enabled() {
		if err := s.indexer.Delete(ctx, id); err != nil {
			s.logger.Warn("Failed to remove property from search index", zap.String("propertyID", id.String()), zap.Error(err))
		}
	}

	s.logger.Info("Property deleted", zap.String("propertyID", id.String()))
	return nil
}

// Search serves the public listing feed. Only published and approved
// properties are enumerable regardless of what the caller asks for.
func (s *ServiceImplementation) Search(ctx context.Context, query PropertySearchQuery) ([]Property, *common.Pagination, error) {
	query.Statuses = PublicStatuses

	if term := strings.TrimSpace(query.SearchTerm); term != "" && s.indexer != nil && s.indexer.Enabled() {
		properties, pagination, err := s.searchViaIndex(ctx, term, query)
		if err == nil {
			return properties, pagination, nil
		}
		s.logger.Warn("Search index query failed, falling back to database", zap.Error(err))
	}

	return s.repo.Search(ctx, query)
}

// AdminSearch serves the back-office table and may see every state.
func (s *ServiceImplementation) AdminSearch(ctx context.Context, query PropertySearchQuery) ([]Property, *common.Pagination, error) {
	query.Statuses = nil
	return s.repo.Search(ctx, query)
}

// GetAssignedToUser returns the caller's private offers.
func (s *ServiceImplementation) GetAssignedToUser(ctx context.Context, userID uuid.UUID) ([]Property, error) {
	return s.repo.FindAssignedToUser(ctx, userID)
}

// GetApprovedByUser returns the properties the caller has approved.
func (s *ServiceImplementation) GetApprovedByUser(ctx context.Context, userID uuid.UUID) ([]Property, error) {
	return s.repo.FindApprovedByUser(ctx, userID)
}

// ApproveAndPublish is the sole transition out of pending. Only the
// assigned user (or an admin acting on their behalf) may perform it.
func (s *ServiceImplementation) ApproveAndPublish(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*Property, error) {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if property.AssignmentStatus != StatusPending {
		return nil, common.NewConflictError("This property is not awaiting approval.")
	}
	if property.AssignedToUserID == nil {
		// A pending row without an assignee violates the workflow
		// invariant; refuse rather than guess.
		s.logger.Error("Pending property has no assigned user", zap.String("propertyID", id.String()))
		return nil, common.ErrInternalServer.WithDetails("Property assignment state is inconsistent.")
	}
	if actorRole != common.RoleAdmin && *property.AssignedToUserID != actorID {
		return nil, common.NewForbiddenError("Only the assigned user may approve this property.")
	}

	now := time.Now()
	property.AssignmentStatus = StatusApproved
	property.ApprovedAt = &now
	property.UpdatedAt = now

	if err := s.repo.Update(ctx, property); err != nil {
		return nil, err
	}

	s.syncIndex(ctx, property)

	s.logger.Info("Property approved and published",
		zap.String("propertyID", property.ID.String()),
		zap.String("approvedBy", actorID.String()),
	)
	return property, nil
}

// SetHomepage toggles homepage curation. Orthogonal to assignment state.
func (s *ServiceImplementation) SetHomepage(ctx context.Context, id uuid.UUID, showOnHomepage bool) (*Property, error) {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	property.ShowOnHomepage = showOnHomepage
	property.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, property); err != nil {
		return nil, err
	}

	s.syncIndex(ctx, property)
	return property, nil
}

// ReindexAll rebuilds the search index from the database.
func (s *ServiceImplementation) ReindexAll(ctx context.Context) (int, error) {
	if s.indexer == nil || !s.indexer.Enabled() {
		return 0, nil
	}

	properties, err := s.repo.FindAllPublic(ctx)
	if err != nil {
		return 0, err
	}

	indexed := 0
	for i := range properties {
		if err := s.indexer.Index(ctx, &properties[i]); err != nil {
			s.logger.Error("Failed to index property during reindex",
				zap.String("propertyID", properties[i].ID.String()), zap.Error(err))
			continue
		}
		indexed++
	}
	return indexed, nil
}

// syncIndex keeps the search index consistent with the row: public
// properties are indexed, pending ones are removed. Index failures are
// logged, never surfaced; the database stays the source of truth.
func (s *ServiceImplementation) syncIndex(ctx context.Context, property *Property) {
	if s.indexer == nil || !s.indexer.Enabled() {
		return
	}

	var err error
	if property.AssignmentStatus.IsPublic() {
		err = s.indexer.Index(ctx, property)
	} else {
		err = s.indexer.Delete(ctx, property.ID)
	}
	if err != nil {
		s.logger.Warn("Failed to sync property to search index",
			zap.String("propertyID", property.ID.String()), zap.Error(err))
	}
}

// searchViaIndex answers a free-text query from the search index, then
// hydrates and filters rows from the database preserving relevance
// order.
func (s *ServiceImplementation) searchViaIndex(ctx context.Context, term string, query PropertySearchQuery) ([]Property, *common.Pagination, error) {
	ids, err := s.indexer.SearchIDs(ctx, term, 500)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[uuid.UUID]*Property, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	var matched []Property
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || !p.AssignmentStatus.IsPublic() {
			continue
		}
		if !matchesFilters(p, query) {
			continue
		}
		matched = append(matched, *p)
	}

	totalItems := int64(len(matched))
	offset := query.Offset()
	limit := query.Limit()
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	pagination := common.NewPagination(totalItems, query.Page, query.PageSize)
	return matched[offset:end], pagination, nil
}

func matchesFilters(p *Property, query PropertySearchQuery) bool {
	if query.Type != "" && p.Type != query.Type {
		return false
	}
	if query.MinPrice != nil && p.Price < *query.MinPrice {
		return false
	}
	if query.MaxPrice != nil && p.Price > *query.MaxPrice {
		return false
	}
	if query.MinBedrooms != nil && p.Bedrooms < *query.MinBedrooms {
		return false
	}
	if query.HomepageOnly && !p.ShowOnHomepage {
		return false
	}
	return true
}
