// File: internal/shared/core.go
package shared

import (
	"context"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
)

// User represents a user as seen by modules outside the user package.
// Keeping this contract here breaks the import cycle between the user
// module and the middleware that authenticates requests.
type User struct {
	ID              uuid.UUID
	FirebaseUID     string
	Email           *string
	Username        *string
	FirstName       *string
	LastName        *string
	Role            string
	IsEmailVerified bool
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LastLoginAt     *time.Time
}

// Service defines the user operations other modules rely on.
type Service interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error)
	GetOrCreateUserFromFirebaseClaims(ctx context.Context, firebaseToken *firebaseauth.Token) (usr *User, wasCreated bool, err error)
	// FindUserByEmailOrUsername looks a user up by either handle.
	// Returns (nil, nil) when nothing matches.
	FindUserByEmailOrUsername(ctx context.Context, email, username string) (*User, error)
}
