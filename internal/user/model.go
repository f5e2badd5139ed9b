// File: internal/user/model.go
package user

import (
	"time"

	"estatehub_backend/internal/common"
	"estatehub_backend/internal/shared"
)

// User represents the user model in the database. Records are provisioned
// from verified Firebase ID tokens on first authenticated request.
type User struct {
	common.BaseModel
	FirebaseUID     string  `gorm:"type:varchar(128);not null;uniqueIndex"`
	Email           *string `gorm:"type:varchar(255);uniqueIndex"`
	Username        *string `gorm:"type:varchar(100);uniqueIndex"`
	FirstName       *string `gorm:"type:varchar(100)"`
	LastName        *string `gorm:"type:varchar(100)"`
	IsEmailVerified bool    `gorm:"not null;default:false"`
	Role            string  `gorm:"type:varchar(50);not null;default:'user'"`
	IsActive        bool    `gorm:"not null;default:true"`
	LastLoginAt     *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// UpdateProfileRequest defines the structure for profile updates.
type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty" binding:"omitempty,min=3,max=100"`
	FirstName *string `json:"first_name,omitempty" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" binding:"omitempty,max=100"`
}

// ToSharedUser converts a User model to the cross-module representation.
func ToSharedUser(u *User) *shared.User {
	if u == nil {
		return nil
	}
	return &shared.User{
		ID:              u.ID,
		FirebaseUID:     u.FirebaseUID,
		Email:           u.Email,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Role:            u.Role,
		IsEmailVerified: u.IsEmailVerified,
		IsActive:        u.IsActive,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
		LastLoginAt:     u.LastLoginAt,
	}
}
