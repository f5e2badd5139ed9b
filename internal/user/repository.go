// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"strings"

	"estatehub_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for user data operations.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error)
	Update(ctx context.Context, user *User) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM user repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new user record into the database.
func (r *gormRepository) Create(ctx context.Context, user *User) error {
	if user.Email != nil {
		*user.Email = strings.ToLower(strings.TrimSpace(*user.Email))
	}
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "email") {
				return common.ErrConflict.WithDetails("User with this email already exists.")
			}
			if strings.Contains(err.Error(), "username") {
				return common.ErrConflict.WithDetails("This username is already taken.")
			}
			return common.ErrConflict.WithDetails("User with this identity already exists.")
		}
		return err
	}
	return nil
}

// FindByID retrieves a user by their ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this ID.")
		}
		return nil, err
	}
	return &userModel, nil
}

// FindByEmail retrieves a user by their email address.
func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var userModel User
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	err := r.db.WithContext(ctx).Where("email = ?", normalizedEmail).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this email.")
		}
		return nil, err
	}
	return &userModel, nil
}

// FindByUsername retrieves a user by their username.
func (r *gormRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var userModel User
	normalized := strings.TrimSpace(username)
	err := r.db.WithContext(ctx).Where("username = ?", normalized).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this username.")
		}
		return nil, err
	}
	return &userModel, nil
}

// FindByFirebaseUID retrieves a user by their Firebase UID.
func (r *gormRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this Firebase UID.")
		}
		return nil, err
	}
	return &userModel, nil
}

// Update modifies an existing user record in the database.
func (r *gormRepository) Update(ctx context.Context, user *User) error {
	if user.Email != nil {
		*user.Email = strings.ToLower(strings.TrimSpace(*user.Email))
	}
	err := r.db.WithContext(ctx).Save(user).Error
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("Update failed due to a conflict (e.g., email or username already taken).")
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "unique constraint") ||
		strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}
