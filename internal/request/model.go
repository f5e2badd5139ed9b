// File: internal/request/model.go
package request

import (
	"time"

	"estatehub_backend/internal/common"

	"github.com/google/uuid"
)

// PurchaseRequest represents a buyer's expression of interest in a
// property. The row outlives its notification: marking the decision
// notification read never touches this record.
type PurchaseRequest struct {
	common.BaseModel
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`

	FirstName string  `gorm:"type:varchar(100);not null"`
	LastName  string  `gorm:"type:varchar(100);not null"`
	Email     string  `gorm:"type:varchar(255);not null"`
	Phone     *string `gorm:"type:varchar(50)"`
	Message   *string `gorm:"type:text"`

	Status       RequestStatus `gorm:"type:varchar(50);not null;default:'pending';index"`
	ResponseText *string       `gorm:"type:text"`
	DecidedAt    *time.Time
	DecidedByID  *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the table name for the PurchaseRequest model.
func (PurchaseRequest) TableName() string {
	return "purchase_requests"
}

// --- DTOs for API ---

// CreateRequestRequest is the buyer-facing submission payload. The
// requester's email is taken from the session, never from the body.
type CreateRequestRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	FirstName  string    `json:"first_name" binding:"required,max=100"`
	LastName   string    `json:"last_name" binding:"required,max=100"`
	Phone      string    `json:"phone" binding:"omitempty,max=50"`
	Message    string    `json:"message" binding:"omitempty,max=2000"`
}

// DecideRequestRequest carries the optional admin response shown to the
// requester alongside the decision.
type DecideRequestRequest struct {
	ResponseText string `json:"response_text" binding:"omitempty,max=2000"`
}

// UpdateStatusRequest records a downstream outcome on a decided request.
type UpdateStatusRequest struct {
	Status RequestStatus `json:"status" binding:"required,oneof=contacted completed cancelled"`
}

// RequestResponse is the API representation of a purchase request.
type RequestResponse struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	UserID     uuid.UUID `json:"user_id"`

	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	Message   *string `json:"message,omitempty"`

	Status        RequestStatus `json:"status"`
	StatusDisplay StatusDisplay `json:"status_display"`
	ResponseText  *string       `json:"response_text,omitempty"`
	DecidedAt     *time.Time    `json:"decided_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToRequestResponse converts a PurchaseRequest to its API representation.
func ToRequestResponse(r *PurchaseRequest) RequestResponse {
	return RequestResponse{
		ID:            r.ID,
		PropertyID:    r.PropertyID,
		UserID:        r.UserID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		Phone:         r.Phone,
		Message:       r.Message,
		Status:        r.Status,
		StatusDisplay: r.Status.Display(),
		ResponseText:  r.ResponseText,
		DecidedAt:     r.DecidedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// RequestListQuery holds the filters for admin request listings.
type RequestListQuery struct {
	common.PaginationQuery
	Status     RequestStatus `form:"status"`
	PropertyID *uuid.UUID    `form:"property_id"`
}

// StatusCounts summarizes the back-office request queue.
type StatusCounts map[RequestStatus]int64
