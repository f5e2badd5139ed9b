// File: internal/property/repository.go
package property

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"estatehub_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for property data operations.
type Repository interface {
	Create(ctx context.Context, property *Property) error
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Property, error)
	Update(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query PropertySearchQuery) ([]Property, *common.Pagination, error)
	FindAssignedToUser(ctx context.Context, userID uuid.UUID) ([]Property, error)
	FindApprovedByUser(ctx context.Context, userID uuid.UUID) ([]Property, error)
	FindAllPublic(ctx context.Context) ([]Property, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM property repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new property record.
func (r *gormRepository) Create(ctx context.Context, property *Property) error {
	if err := r.db.WithContext(ctx).Create(property).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("A property with conflicting identity already exists.")
		}
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// FindByID retrieves a property by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	var property Property
	err := r.db.WithContext(ctx).First(&property, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Property not found.")
		}
		return nil, err
	}
	return &property, nil
}

// FindByIDs retrieves a batch of properties. Missing IDs are skipped.
func (r *gormRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var properties []Property
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// Update saves the full property record.
func (r *gormRepository) Update(ctx context.Context, property *Property) error {
	if err := r.db.WithContext(ctx).Save(property).Error; err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	return nil
}

// Delete removes a property by ID. Dependent rows (favorites, purchase
// requests) cascade at the database level.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Property{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Property not found or already deleted.")
	}
	return nil
}

// Search retrieves properties matching the query. Statuses restricts the
// visible state set; an empty slice means all states (admin view).
func (r *gormRepository) Search(ctx context.Context, query PropertySearchQuery) ([]Property, *common.Pagination, error) {
	dbQuery := r.db.WithContext(ctx).Model(&Property{})

	if len(query.Statuses) > 0 {
		dbQuery = dbQuery.Where("assignment_status IN ?", query.Statuses)
	}
	if term := strings.TrimSpace(query.SearchTerm); term != "" {
		like := "%" + term + "%"
		dbQuery = dbQuery.Where("title ILIKE ? OR location ILIKE ? OR description ILIKE ?", like, like, like)
	}
	if query.Type != "" {
		dbQuery = dbQuery.Where("type = ?", query.Type)
	}
	if query.MinPrice != nil {
		dbQuery = dbQuery.Where("price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		dbQuery = dbQuery.Where("price <= ?", *query.MaxPrice)
	}
	if query.MinBedrooms != nil {
		dbQuery = dbQuery.Where("bedrooms >= ?", *query.MinBedrooms)
	}
	if query.HomepageOnly {
		dbQuery = dbQuery.Where("show_on_homepage = ?", true)
	}

	var totalItems int64
	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count properties: %w", err)
	}

	sortColumn := "created_at"
	switch query.SortBy {
	case "price":
		sortColumn = "price"
	case "size":
		sortColumn = "size"
	case "year_built":
		sortColumn = "year_built"
	}
	sortOrder := "DESC"
	if strings.EqualFold(query.SortOrder, "asc") {
		sortOrder = "ASC"
	}
	dbQuery = dbQuery.Order(fmt.Sprintf("%s %s", sortColumn, sortOrder))

	var properties []Property
	err := dbQuery.Offset(query.Offset()).Limit(query.Limit()).Find(&properties).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search properties: %w", err)
	}

	pagination := common.NewPagination(totalItems, query.Page, query.PageSize)
	return properties, pagination, nil
}

// FindAssignedToUser returns the properties privately shared with the
// given user, newest assignment first.
func (r *gormRepository) FindAssignedToUser(ctx context.Context, userID uuid.UUID) ([]Property, error) {
	var properties []Property
	err := r.db.WithContext(ctx).
		Where("assigned_to_user_id = ?", userID).
		Order("assigned_at DESC NULLS LAST").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// FindApprovedByUser returns the properties the given user has approved.
func (r *gormRepository) FindApprovedByUser(ctx context.Context, userID uuid.UUID) ([]Property, error) {
	var properties []Property
	err := r.db.WithContext(ctx).
		Where("assigned_to_user_id = ? AND assignment_status = ?", userID, StatusApproved).
		Order("approved_at DESC NULLS LAST").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// FindAllPublic returns every publicly enumerable property. Used by the
// search reindex path.
func (r *gormRepository) FindAllPublic(ctx context.Context) ([]Property, error) {
	var properties []Property
	err := r.db.WithContext(ctx).
		Where("assignment_status IN ?", PublicStatuses).
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}
