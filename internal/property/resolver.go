// File: internal/property/resolver.go
package property

import (
	"context"
	"fmt"
	"strings"

	"estatehub_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resolution is the outcome of resolving an assignment target.
type Resolution struct {
	// UserID is the resolved target, uuid.Nil when no user matched.
	UserID uuid.UUID
	// Matched reports whether a lookup was performed and found a user.
	Matched bool
	// Warning is set when a requested assignment could not be honored.
	// The property then falls back to an immediate public publish.
	Warning string
}

// AssignmentResolver maps an optional email/username supplied at
// property-creation time to a concrete user.
type AssignmentResolver struct {
	users  shared.Service
	logger *zap.Logger
}

// NewAssignmentResolver creates a new resolver.
func NewAssignmentResolver(users shared.Service, logger *zap.Logger) *AssignmentResolver {
	return &AssignmentResolver{users: users, logger: logger}
}

// Resolve looks up the assignment target. With both handles blank no
// lookup happens and the zero Resolution is returned. A lookup miss is
// not an error: the caller publishes the property and surfaces Warning to
// the operator instead of stranding it in an unreachable pending state.
func (r *AssignmentResolver) Resolve(ctx context.Context, email, username string) (Resolution, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" && username == "" {
		return Resolution{}, nil
	}

	usr, err := r.users.FindUserByEmailOrUsername(ctx, email, username)
	if err != nil {
		return Resolution{}, fmt.Errorf("assignment lookup failed: %w", err)
	}
	if usr == nil {
		target := email
		if target == "" {
			target = username
		}
		r.logger.Warn("Assignment target not found, publishing publicly instead",
			zap.String("target", target),
		)
		return Resolution{
			Warning: fmt.Sprintf("No user found for %q. The property was published publicly instead of being privately assigned.", target),
		}, nil
	}

	return Resolution{UserID: usr.ID, Matched: true}, nil
}
