// File: internal/property/model.go
package property

import (
	"time"

	"estatehub_backend/internal/common"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Property represents a real-estate listing. Assignment fields drive the
// publication workflow: a property privately assigned at creation time
// stays pending until the assigned user approves it.
type Property struct {
	common.BaseModel
	Title       string         `gorm:"type:varchar(255);not null"`
	Slug        string         `gorm:"type:varchar(280);not null;index"`
	Description string         `gorm:"type:text;not null"`
	Price       float64        `gorm:"type:numeric(14,2);not null"`
	Location    string         `gorm:"type:varchar(255);not null"`
	Bedrooms    int            `gorm:"not null;default:0"`
	Bathrooms   int            `gorm:"not null;default:0"`
	Size        float64        `gorm:"type:numeric(10,2);not null;default:0"`
	Amenities   pq.StringArray `gorm:"type:text[]"`
	Type        string         `gorm:"type:varchar(100);not null"`
	YearBuilt   int            `gorm:"not null;default:0"`
	Images      pq.StringArray `gorm:"type:text[]"`

	ShowOnHomepage bool `gorm:"not null;default:false"`

	AssignmentStatus   AssignmentStatus `gorm:"type:varchar(50);not null;default:'published';index"`
	AssignedToUserID   *uuid.UUID       `gorm:"type:uuid;index"`
	AssignedToEmail    *string          `gorm:"type:varchar(255)"`
	AssignedToUsername *string          `gorm:"type:varchar(100)"`
	AssignedAt         *time.Time
	ApprovedAt         *time.Time

	CreatedByID uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName specifies the table name for the Property model.
func (Property) TableName() string {
	return "properties"
}

// --- DTOs for API ---

// CreatePropertyRequest defines the admin property-creation payload.
// Supplying assigned_to_email or assigned_to_username triggers the
// assignment resolver.
type CreatePropertyRequest struct {
	Title       string   `json:"title" binding:"required,min=5,max=255"`
	Description string   `json:"description" binding:"required,min=20"`
	Price       float64  `json:"price" binding:"required,gte=0"`
	Location    string   `json:"location" binding:"required,max=255"`
	Bedrooms    int      `json:"bedrooms" binding:"gte=0"`
	Bathrooms   int      `json:"bathrooms" binding:"gte=0"`
	Size        float64  `json:"size" binding:"gte=0"`
	Amenities   []string `json:"amenities" binding:"omitempty,dive,max=100"`
	Type        string   `json:"type" binding:"required,max=100"`
	YearBuilt   int      `json:"year_built" binding:"omitempty,gte=1800"`
	Images      []string `json:"images" binding:"omitempty,dive,url"`

	ShowOnHomepage bool `json:"show_on_homepage"`

	AssignedToEmail    string `json:"assigned_to_email" binding:"omitempty,email,max=255"`
	AssignedToUsername string `json:"assigned_to_username" binding:"omitempty,max=100"`
}

// UpdatePropertyRequest defines the admin property-update payload.
type UpdatePropertyRequest struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,min=5,max=255"`
	Description *string  `json:"description,omitempty" binding:"omitempty,min=20"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	Location    *string  `json:"location,omitempty" binding:"omitempty,max=255"`
	Bedrooms    *int     `json:"bedrooms,omitempty" binding:"omitempty,gte=0"`
	Bathrooms   *int     `json:"bathrooms,omitempty" binding:"omitempty,gte=0"`
	Size        *float64 `json:"size,omitempty" binding:"omitempty,gte=0"`
	Amenities   []string `json:"amenities,omitempty" binding:"omitempty,dive,max=100"`
	Type        *string  `json:"type,omitempty" binding:"omitempty,max=100"`
	YearBuilt   *int     `json:"year_built,omitempty" binding:"omitempty,gte=1800"`
	Images      []string `json:"images,omitempty" binding:"omitempty,dive,url"`
}

// SetHomepageRequest toggles homepage curation for a property.
type SetHomepageRequest struct {
	ShowOnHomepage bool `json:"show_on_homepage"`
}

// PropertyResponse is the API representation of a property.
type PropertyResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	Size        float64   `json:"size"`
	Amenities   []string  `json:"amenities"`
	Type        string    `json:"type"`
	YearBuilt   int       `json:"year_built"`
	Images      []string  `json:"images"`

	ShowOnHomepage bool `json:"show_on_homepage"`

	AssignmentStatus AssignmentStatus `json:"assignment_status"`
	StatusDisplay    StatusDisplay    `json:"status_display"`
	AssignedAt       *time.Time       `json:"assigned_at,omitempty"`
	ApprovedAt       *time.Time       `json:"approved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminPropertyResponse extends PropertyResponse with assignment
// provenance only the back office may see.
type AdminPropertyResponse struct {
	PropertyResponse
	AssignedToUserID   *uuid.UUID `json:"assigned_to_user_id,omitempty"`
	AssignedToEmail    *string    `json:"assigned_to_email,omitempty"`
	AssignedToUsername *string    `json:"assigned_to_username,omitempty"`
	CreatedByID        uuid.UUID  `json:"created_by_id"`
}

// CreatePropertyResponse wraps the created property with the resolver
// outcome. Warning is set when a requested private assignment could not
// be honored and the property was published instead.
type CreatePropertyResponse struct {
	Property AdminPropertyResponse `json:"property"`
	Warning  string                `json:"warning,omitempty"`
}

// ToPropertyResponse converts a Property model to its API representation.
func ToPropertyResponse(p *Property) PropertyResponse {
	return PropertyResponse{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             p.Slug,
		Description:      p.Description,
		Price:            p.Price,
		Location:         p.Location,
		Bedrooms:         p.Bedrooms,
		Bathrooms:        p.Bathrooms,
		Size:             p.Size,
		Amenities:        p.Amenities,
		Type:             p.Type,
		YearBuilt:        p.YearBuilt,
		Images:           p.Images,
		ShowOnHomepage:   p.ShowOnHomepage,
		AssignmentStatus: p.AssignmentStatus,
		StatusDisplay:    p.AssignmentStatus.Display(),
		AssignedAt:       p.AssignedAt,
		ApprovedAt:       p.ApprovedAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToAdminPropertyResponse converts a Property model to its back-office
// representation.
func ToAdminPropertyResponse(p *Property) AdminPropertyResponse {
	return AdminPropertyResponse{
		PropertyResponse:   ToPropertyResponse(p),
		AssignedToUserID:   p.AssignedToUserID,
		AssignedToEmail:    p.AssignedToEmail,
		AssignedToUsername: p.AssignedToUsername,
		CreatedByID:        p.CreatedByID,
	}
}

// PropertySearchQuery holds the filters for property listing queries.
type PropertySearchQuery struct {
	common.PaginationQuery
	SearchTerm   string   `form:"q"`
	Type         string   `form:"type"`
	MinPrice     *float64 `form:"min_price"`
	MaxPrice     *float64 `form:"max_price"`
	MinBedrooms  *int     `form:"min_bedrooms"`
	HomepageOnly bool     `form:"homepage_only"`
	SortBy       string   `form:"sort_by"`
	SortOrder    string   `form:"sort_order"`

	// Statuses is set server-side, never from the query string. Public
	// routes pin it to PublicStatuses; the admin table leaves it empty to
	// see everything.
	Statuses []AssignmentStatus `form:"-"`
}
