// File: internal/request/repository.go
package request

import (
	"context"
	"errors"
	"fmt"

	"estatehub_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for purchase-request data operations.
type Repository interface {
	Create(ctx context.Context, req *PurchaseRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseRequest, error)
	FindByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]PurchaseRequest, *common.Pagination, error)
	List(ctx context.Context, query RequestListQuery) ([]PurchaseRequest, *common.Pagination, error)
	Update(ctx context.Context, req *PurchaseRequest) error
	HasPendingForUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (bool, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM purchase-request repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new purchase request.
func (r *gormRepository) Create(ctx context.Context, req *PurchaseRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create purchase request: %w", err)
	}
	return nil
}

// FindByID retrieves a purchase request by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*PurchaseRequest, error) {
	var req PurchaseRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Purchase request not found.")
		}
		return nil, err
	}
	return &req, nil
}

// FindByUser returns a user's own requests, newest first.
func (r *gormRepository) FindByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]PurchaseRequest, *common.Pagination, error) {
	query := r.db.WithContext(ctx).Model(&PurchaseRequest{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting purchase requests for user %s failed: %w", userID, err)
	}

	pagination := common.NewPagination(total, page, pageSize)
	offset := (page - 1) * pageSize
	if page <= 0 {
		offset = 0
	}

	var requests []PurchaseRequest
	err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&requests).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching purchase requests for user %s failed: %w", userID, err)
	}
	return requests, pagination, nil
}

// List returns requests for the back-office queue, optionally filtered
// by status and property.
func (r *gormRepository) List(ctx context.Context, query RequestListQuery) ([]PurchaseRequest, *common.Pagination, error) {
	dbQuery := r.db.WithContext(ctx).Model(&PurchaseRequest{})
	if query.Status != "" {
		dbQuery = dbQuery.Where("status = ?", query.Status)
	}
	if query.PropertyID != nil {
		dbQuery = dbQuery.Where("property_id = ?", *query.PropertyID)
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting purchase requests failed: %w", err)
	}

	pagination := common.NewPagination(total, query.Page, query.PageSize)

	var requests []PurchaseRequest
	err := dbQuery.Order("created_at DESC").
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&requests).Error
	if err != nil {
		return nil, nil, fmt.Errorf("listing purchase requests failed: %w", err)
	}
	return requests, pagination, nil
}

// Update saves the full purchase-request record.
func (r *gormRepository) Update(ctx context.Context, req *PurchaseRequest) error {
	if err := r.db.WithContext(ctx).Save(req).Error; err != nil {
		return fmt.Errorf("failed to update purchase request: %w", err)
	}
	return nil
}

// HasPendingForUserAndProperty reports whether the user already has an
// undecided request for the property.
func (r *gormRepository) HasPendingForUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&PurchaseRequest{}).
		Where("user_id = ? AND property_id = ? AND status = ?", userID, propertyID, StatusPending).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check for pending purchase request: %w", err)
	}
	return count > 0, nil
}

// CountByStatus aggregates the queue for the admin dashboard.
func (r *gormRepository) CountByStatus(ctx context.Context) (StatusCounts, error) {
	type row struct {
		Status RequestStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&PurchaseRequest{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count purchase requests by status: %w", err)
	}

	counts := make(StatusCounts, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
