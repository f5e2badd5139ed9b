// File: internal/middleware/auth.go
package middleware

import (
	"context"

	"estatehub_backend/internal/common"
	"estatehub_backend/internal/shared"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenVerifier checks a raw bearer token and returns its claims. The
// Firebase service satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// SessionObserver is told when the identity behind a session changes,
// here when a token resolves to a freshly provisioned local user, so
// per-user caches can be torn down. May be nil.
type SessionObserver interface {
	OnUserChanged(userID uuid.UUID)
}

// AuthMiddleware creates a Gin middleware that verifies the Firebase ID
// token on the Authorization header and resolves it to a local user
// record, creating the record on first sight.
func AuthMiddleware(verifier TokenVerifier, userService shared.Service, sessions SessionObserver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := common.GetTokenFromContext(c)
		if tokenString == "" {
			logger.Debug("Authorization header missing or malformed")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		firebaseToken, err := verifier.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Warn("Token verification failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired authentication token."))
			return
		}

		usr, wasCreated, err := userService.GetOrCreateUserFromFirebaseClaims(c.Request.Context(), firebaseToken)
		if err != nil {
			logger.Error("Failed to resolve authenticated user", zap.Error(err), zap.String("firebase_uid", firebaseToken.UID))
			common.RespondWithError(c, err)
			return
		}
		if !usr.IsActive {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("This account has been deactivated."))
			return
		}
		if wasCreated {
			logger.Info("Provisioned local user from Firebase claims",
				zap.String("userID", usr.ID.String()),
				zap.String("firebase_uid", firebaseToken.UID),
			)
			if sessions != nil {
				sessions.OnUserChanged(usr.ID)
			}
		}

		email := ""
		if usr.Email != nil {
			email = *usr.Email
		}

		c.Set(common.UserIDKey, usr.ID)
		c.Set(common.UserEmailKey, email)
		c.Set(common.UserRoleKey, usr.Role)
		c.Set(common.FirebaseUIDKey, firebaseToken.UID)

		logger.Debug("User authenticated successfully",
			zap.String("userID", usr.ID.String()),
			zap.String("role", usr.Role),
		)

		c.Next()
	}
}

// OptionalAuthMiddleware populates the user context when a valid token
// is presented but lets anonymous requests through untouched. Routes
// behind it serve both audiences and decide per-record what to expose.
func OptionalAuthMiddleware(verifier TokenVerifier, userService shared.Service, sessions SessionObserver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := common.GetTokenFromContext(c)
		if tokenString == "" {
			c.Next()
			return
		}

		firebaseToken, err := verifier.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Debug("Ignoring invalid token on optional-auth route", zap.Error(err))
			c.Next()
			return
		}

		usr, wasCreated, err := userService.GetOrCreateUserFromFirebaseClaims(c.Request.Context(), firebaseToken)
		if err != nil || !usr.IsActive {
			c.Next()
			return
		}
		if wasCreated && sessions != nil {
			sessions.OnUserChanged(usr.ID)
		}

		email := ""
		if usr.Email != nil {
			email = *usr.Email
		}

		c.Set(common.UserIDKey, usr.ID)
		c.Set(common.UserEmailKey, email)
		c.Set(common.UserRoleKey, usr.Role)
		c.Set(common.FirebaseUIDKey, firebaseToken.UID)
		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware to check if the authenticated
// user has one of the required roles. It must run after AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := common.GetUserRoleFromContext(c)
		if userRole == "" {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}

		common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
	}
}
