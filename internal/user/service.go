// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"estatehub_backend/internal/common"
	"estatehub_backend/internal/config"
	"estatehub_backend/internal/shared"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceImplementation implements the shared.Service interface.
type ServiceImplementation struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
}

var _ shared.Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// GetUserByID returns the user with the given ID.
func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToSharedUser(dbUser), nil
}

// GetUserByEmail returns the user with the given email.
func (s *ServiceImplementation) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return ToSharedUser(dbUser), nil
}

// GetUserByFirebaseUID returns the user with the given Firebase UID.
func (s *ServiceImplementation) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*shared.User, error) {
	dbUser, err := s.repo.FindByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	return ToSharedUser(dbUser), nil
}

// GetOrCreateUserFromFirebaseClaims resolves a verified Firebase token to
// a local user record, provisioning the record on first sight and keeping
// profile fields in sync with the token claims on later logins.
func (s *ServiceImplementation) GetOrCreateUserFromFirebaseClaims(ctx context.Context, firebaseToken *firebaseauth.Token) (*shared.User, bool, error) {
	if firebaseToken == nil || firebaseToken.UID == "" {
		return nil, false, common.ErrUnauthorized.WithDetails("Missing Firebase identity.")
	}

	now := time.Now()

	dbUser, err := s.repo.FindByFirebaseUID(ctx, firebaseToken.UID)
	if err == nil {
		changed := s.applyClaims(dbUser, firebaseToken)
		dbUser.LastLoginAt = &now
		if updateErr := s.repo.Update(ctx, dbUser); updateErr != nil {
			// Last-login bookkeeping must not fail the request.
			s.logger.Error("Failed to update user on login", zap.Error(updateErr), zap.String("userID", dbUser.ID.String()))
		} else if changed {
			s.logger.Info("Synced user profile from Firebase claims", zap.String("userID", dbUser.ID.String()))
		}
		return ToSharedUser(dbUser), false, nil
	}
	if !isNotFound(err) {
		s.logger.Error("Error looking up user by Firebase UID", zap.Error(err), zap.String("firebase_uid", firebaseToken.UID))
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	newUser := &User{
		BaseModel: common.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FirebaseUID: firebaseToken.UID,
		Role:        common.RoleUser,
		IsActive:    true,
		LastLoginAt: &now,
	}
	s.applyClaims(newUser, firebaseToken)

	if err := s.repo.Create(ctx, newUser); err != nil {
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, false, apiErr
		}
		s.logger.Error("Failed to create user from Firebase claims", zap.Error(err), zap.String("firebase_uid", firebaseToken.UID))
		return nil, false, common.ErrInternalServer.WithDetails("Could not create user account.")
	}

	s.logger.Info("Created user from Firebase claims", zap.String("userID", newUser.ID.String()))
	return ToSharedUser(newUser), true, nil
}

// FindUserByEmailOrUsername looks a user up by either handle. A miss on
// both returns (nil, nil) so callers can apply their own fallback policy.
func (s *ServiceImplementation) FindUserByEmailOrUsername(ctx context.Context, email, username string) (*shared.User, error) {
	if strings.TrimSpace(email) != "" {
		dbUser, err := s.repo.FindByEmail(ctx, email)
		if err == nil {
			return ToSharedUser(dbUser), nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}

	if strings.TrimSpace(username) != "" {
		dbUser, err := s.repo.FindByUsername(ctx, username)
		if err == nil {
			return ToSharedUser(dbUser), nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}

	return nil, nil
}

// UpdateProfile applies a profile update for the given user.
func (s *ServiceImplementation) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		if trimmed == "" {
			return nil, common.NewBadRequestError("Username must not be blank.")
		}
		dbUser.Username = &trimmed
	}
	if req.FirstName != nil {
		dbUser.FirstName = req.FirstName
	}
	if req.LastName != nil {
		dbUser.LastName = req.LastName
	}
	dbUser.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, dbUser); err != nil {
		return nil, err
	}
	return ToSharedUser(dbUser), nil
}

// applyClaims copies profile claims from the Firebase token onto the user
// model. Returns true when something other than timestamps changed.
func (s *ServiceImplementation) applyClaims(dbUser *User, token *firebaseauth.Token) bool {
	changed := false

	if emailClaim, ok := token.Claims["email"].(string); ok && emailClaim != "" {
		normalized := strings.ToLower(strings.TrimSpace(emailClaim))
		if dbUser.Email == nil || *dbUser.Email != normalized {
			dbUser.Email = &normalized
			changed = true
		}
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok && dbUser.IsEmailVerified != verified {
		dbUser.IsEmailVerified = verified
		changed = true
	}
	if nameClaim, ok := token.Claims["name"].(string); ok && nameClaim != "" {
		first, last := splitDisplayName(nameClaim)
		if dbUser.FirstName == nil && first != "" {
			dbUser.FirstName = &first
			changed = true
		}
		if dbUser.LastName == nil && last != "" {
			dbUser.LastName = &last
			changed = true
		}
	}
	return changed
}

func splitDisplayName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	first = parts[0]
	if len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	}
	return first, last
}

func isNotFound(err error) bool {
	if apiErr, ok := common.IsAPIError(err); ok {
		return apiErr.StatusCode == common.ErrNotFound.StatusCode
	}
	return errors.Is(err, common.ErrNotFound)
}
