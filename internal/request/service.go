// File: internal/request/service.go
package request

import (
	"context"
	"fmt"
	"strings"
	"time"

	"estatehub_backend/internal/common"
	"estatehub_backend/internal/notification"
	"estatehub_backend/internal/property"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for purchase-request business logic.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, email string, req CreateRequestRequest) (*PurchaseRequest, error)
	GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*PurchaseRequest, error)
	GetForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]PurchaseRequest, *common.Pagination, error)
	AdminList(ctx context.Context, query RequestListQuery) ([]PurchaseRequest, *common.Pagination, error)
	Approve(ctx context.Context, id uuid.UUID, adminID uuid.UUID, responseText string) (*PurchaseRequest, error)
	Reject(ctx context.Context, id uuid.UUID, adminID uuid.UUID, responseText string) (*PurchaseRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, adminID uuid.UUID, status RequestStatus) (*PurchaseRequest, error)
	Stats(ctx context.Context) (StatusCounts, error)
}

// ServiceImplementation implements the purchase-request Service.
type ServiceImplementation struct {
	repo          Repository
	properties    property.Service
	notifications notification.Service
	logger        *zap.Logger
}

// NewService creates a new purchase-request service.
func NewService(repo Repository, properties property.Service, notifications notification.Service, logger *zap.Logger) Service {
	return &ServiceImplementation{
		repo:          repo,
		properties:    properties,
		notifications: notifications,
		logger:        logger,
	}
}

// Create submits a purchase request. The contact email always comes
// from the authenticated session.
func (s *ServiceImplementation) Create(ctx context.Context, userID uuid.UUID, email string, req CreateRequestRequest) (*PurchaseRequest, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, common.NewBadRequestError("First name and last name are required.")
	}
	if strings.TrimSpace(email) == "" {
		return nil, common.NewBadRequestError("Your account has no email address; one is required to submit a request.")
	}

	// The property must exist and be visible to the requester.
	if _, err := s.properties.GetByID(ctx, req.PropertyID, userID, common.RoleUser); err != nil {
		return nil, err
	}

	pending, err := s.repo.HasPendingForUserAndProperty(ctx, userID, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, common.NewConflictError("You already have a pending request for this property.")
	}

	now := time.Now()
	purchaseRequest := &PurchaseRequest{
		BaseModel: common.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PropertyID: req.PropertyID,
		UserID:     userID,
		FirstName:  firstName,
		LastName:   lastName,
		Email:      email,
		Status:     StatusPending,
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		purchaseRequest.Phone = &phone
	}
	if message := strings.TrimSpace(req.Message); message != "" {
		purchaseRequest.Message = &message
	}

	if err := s.repo.Create(ctx, purchaseRequest); err != nil {
		return nil, err
	}

	s.logger.Info("Purchase request submitted",
		zap.String("requestID", purchaseRequest.ID.String()),
		zap.String("propertyID", req.PropertyID.String()),
		zap.String("userID", userID.String()),
	)
	return purchaseRequest, nil
}

// GetByID returns a request, visible only to its owner and admins.
func (s *ServiceImplementation) GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*PurchaseRequest, error) {
	purchaseRequest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorRole != common.RoleAdmin && purchaseRequest.UserID != actorID {
		return nil, common.ErrNotFound.WithDetails("Purchase request not found.")
	}
	return purchaseRequest, nil
}

// GetForUser returns the caller's request history, decided or not.
func (s *ServiceImplementation) GetForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]PurchaseRequest, *common.Pagination, error) {
	return s.repo.FindByUser(ctx, userID, page, pageSize)
}

// AdminList serves the back-office request queue.
func (s *ServiceImplementation) AdminList(ctx context.Context, query RequestListQuery) ([]PurchaseRequest, *common.Pagination, error) {
	if query.Status != "" && !query.Status.IsValid() {
		return nil, nil, common.NewBadRequestError(fmt.Sprintf("Unknown request status %q.", query.Status))
	}
	return s.repo.List(ctx, query)
}

// Approve records a positive decision and notifies the requester.
func (s *ServiceImplementation) Approve(ctx context.Context, id uuid.UUID, adminID uuid.UUID, responseText string) (*PurchaseRequest, error) {
	return s.decide(ctx, id, adminID, StatusApproved, responseText)
}

// Reject records a negative decision and notifies the requester.
func (s *ServiceImplementation) Reject(ctx context.Context, id uuid.UUID, adminID uuid.UUID, responseText string) (*PurchaseRequest, error) {
	return s.decide(ctx, id, adminID, StatusRejected, responseText)
}

// decide is the single transition out of pending. Deciding an
// already-decided request is a conflict, not an overwrite.
func (s *ServiceImplementation) decide(ctx context.Context, id uuid.UUID, adminID uuid.UUID, decision RequestStatus, responseText string) (*PurchaseRequest, error) {
	purchaseRequest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchaseRequest.Status != StatusPending {
		return nil, common.NewConflictError("This request has already been decided.")
	}

	now := time.Now()
	purchaseRequest.Status = decision
	purchaseRequest.DecidedAt = &now
	purchaseRequest.DecidedByID = &adminID
	purchaseRequest.UpdatedAt = now
	if text := strings.TrimSpace(responseText); text != "" {
		purchaseRequest.ResponseText = &text
	}

	if err := s.repo.Update(ctx, purchaseRequest); err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, purchaseRequest)

	s.logger.Info("Purchase request decided",
		zap.String("requestID", purchaseRequest.ID.String()),
		zap.String("decision", string(decision)),
		zap.String("decidedBy", adminID.String()),
	)
	return purchaseRequest, nil
}

// UpdateStatus records a downstream outcome on a decided request.
func (s *ServiceImplementation) UpdateStatus(ctx context.Context, id uuid.UUID, adminID uuid.UUID, status RequestStatus) (*PurchaseRequest, error) {
	if !status.IsValid() {
		return nil, common.NewBadRequestError(fmt.Sprintf("Unknown request status %q.", status))
	}

	purchaseRequest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !purchaseRequest.Status.CanTransitionTo(status) {
		return nil, common.NewConflictError(fmt.Sprintf(
			"A %s request cannot move to %s.", purchaseRequest.Status, status))
	}

	purchaseRequest.Status = status
	purchaseRequest.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, purchaseRequest); err != nil {
		return nil, err
	}

	s.logger.Info("Purchase request status updated",
		zap.String("requestID", purchaseRequest.ID.String()),
		zap.String("status", string(status)),
		zap.String("updatedBy", adminID.String()),
	)
	return purchaseRequest, nil
}

// Stats aggregates the queue by status for the admin dashboard.
func (s *ServiceImplementation) Stats(ctx context.Context) (StatusCounts, error) {
	return s.repo.CountByStatus(ctx)
}

// notifyDecision surfaces the decision to the requester. The decision
// is already durable; a notification failure is logged, not returned.
func (s *ServiceImplementation) notifyDecision(ctx context.Context, purchaseRequest *PurchaseRequest) {
	notificationType := notification.RequestApproved
	verb := "approved"
	if purchaseRequest.Status == StatusRejected {
		notificationType = notification.RequestRejected
		verb = "rejected"
	}

	subject := s.propertyTitle(ctx, purchaseRequest.PropertyID)
	message := fmt.Sprintf("Your purchase request for %s was %s.", subject, verb)
	if purchaseRequest.ResponseText != nil {
		message = fmt.Sprintf("%s Response: %s", message, *purchaseRequest.ResponseText)
	}

	requestID := purchaseRequest.ID
	propertyID := purchaseRequest.PropertyID
	_, err := s.notifications.Create(ctx, notification.CreateNotificationInput{
		UserID:            purchaseRequest.UserID,
		Type:              notificationType,
		Message:           message,
		RelatedRequestID:  &requestID,
		RelatedPropertyID: &propertyID,
	})
	if err != nil {
		s.logger.Error("Failed to create decision notification",
			zap.String("requestID", purchaseRequest.ID.String()), zap.Error(err))
	}
}

// propertyTitle fetches the property title for the notification text,
// falling back to a generic phrase when the property is gone.
func (s *ServiceImplementation) propertyTitle(ctx context.Context, propertyID uuid.UUID) string {
	p, err := s.properties.GetByID(ctx, propertyID, uuid.Nil, common.RoleAdmin)
	if err != nil || p.Title == "" {
		return "a property"
	}
	return fmt.Sprintf("%q", p.Title)
}
