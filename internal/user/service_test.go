// File: internal/user/service_test.go
package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"estatehub_backend/internal/common"
	"estatehub_backend/internal/config"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock for the user Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, user *User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error) {
	args := m.Called(ctx, firebaseUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, user *User) error {
	return m.Called(ctx, user).Error(0)
}

func newTestService(repo Repository) *ServiceImplementation {
	return NewService(repo, &config.Config{}, zap.NewNop())
}

func firebaseToken(uid string, claims map[string]interface{}) *firebaseauth.Token {
	if claims == nil {
		claims = map[string]interface{}{}
	}
	return &firebaseauth.Token{UID: uid, Claims: claims}
}

func TestGetOrCreateUserFromFirebaseClaims_ProvisionsNewUser(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo)

	repo.On("FindByFirebaseUID", mock.Anything, "fb-uid-1").
		Return(nil, common.ErrNotFound.WithDetails("User not found.")).Once()

	var created *User
	repo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*User) }).
		Return(nil).Once()

	token := firebaseToken("fb-uid-1", map[string]interface{}{
		"email":          "New.User@Example.com",
		"email_verified": true,
		"name":           "Sara Tesfaye",
	})

	usr, wasCreated, err := service.GetOrCreateUserFromFirebaseClaims(context.Background(), token)

	require.NoError(t, err)
	assert.True(t, wasCreated)
	assert.Equal(t, "fb-uid-1", usr.FirebaseUID)
	assert.Equal(t, common.RoleUser, usr.Role)
	assert.True(t, usr.IsActive)
	require.NotNil(t, usr.Email)
	assert.Equal(t, "new.user@example.com", *usr.Email, "claim emails are normalized to lowercase")
	require.NotNil(t, created.FirstName)
	assert.Equal(t, "Sara", *created.FirstName)
	require.NotNil(t, created.LastName)
	assert.Equal(t, "Tesfaye", *created.LastName)
	repo.AssertExpectations(t)
}

func TestGetOrCreateUserFromFirebaseClaims_ExistingUserLogsIn(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo)

	email := "existing@example.com"
	existing := &User{
		BaseModel:   common.BaseModel{ID: uuid.New()},
		FirebaseUID: "fb-uid-2",
		Email:       &email,
		Role:        common.RoleUser,
		IsActive:    true,
	}
	repo.On("FindByFirebaseUID", mock.Anything, "fb-uid-2").Return(existing, nil).Once()
	repo.On("Update", mock.Anything, existing).Return(nil).Once()

	usr, wasCreated, err := service.GetOrCreateUserFromFirebaseClaims(context.Background(),
		firebaseToken("fb-uid-2", map[string]interface{}{"email": email}))

	require.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, existing.ID, usr.ID)
	require.NotNil(t, existing.LastLoginAt)
	assert.WithinDuration(t, time.Now(), *existing.LastLoginAt, time.Minute)
	repo.AssertExpectations(t)
}

func TestGetOrCreateUserFromFirebaseClaims_UpdateFailureIsNotFatal(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo)

	existing := &User{
		BaseModel:   common.BaseModel{ID: uuid.New()},
		FirebaseUID: "fb-uid-3",
		Role:        common.RoleUser,
		IsActive:    true,
	}
	repo.On("FindByFirebaseUID", mock.Anything, "fb-uid-3").Return(existing, nil).Once()
	repo.On("Update", mock.Anything, existing).Return(errors.New("deadlock")).Once()

	usr, wasCreated, err := service.GetOrCreateUserFromFirebaseClaims(context.Background(),
		firebaseToken("fb-uid-3", nil))

	require.NoError(t, err, "last-login bookkeeping must not block authentication")
	assert.False(t, wasCreated)
	assert.Equal(t, existing.ID, usr.ID)
}

func TestGetOrCreateUserFromFirebaseClaims_MissingIdentity(t *testing.T) {
	service := newTestService(new(MockRepository))

	_, _, err := service.GetOrCreateUserFromFirebaseClaims(context.Background(), nil)
	require.Error(t, err)

	_, _, err = service.GetOrCreateUserFromFirebaseClaims(context.Background(), firebaseToken("", nil))
	require.Error(t, err)
}

func TestFindUserByEmailOrUsername(t *testing.T) {
	t.Run("email hit short-circuits", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo)

		email := "found@example.com"
		found := &User{BaseModel: common.BaseModel{ID: uuid.New()}, FirebaseUID: "fb", Email: &email}
		repo.On("FindByEmail", mock.Anything, email).Return(found, nil).Once()

		usr, err := service.FindUserByEmailOrUsername(context.Background(), email, "someuser")

		require.NoError(t, err)
		require.NotNil(t, usr)
		assert.Equal(t, found.ID, usr.ID)
		repo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})

	t.Run("falls through to username", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo)

		username := "someuser"
		found := &User{BaseModel: common.BaseModel{ID: uuid.New()}, FirebaseUID: "fb", Username: &username}
		repo.On("FindByEmail", mock.Anything, "miss@example.com").
			Return(nil, common.ErrNotFound.WithDetails("User not found.")).Once()
		repo.On("FindByUsername", mock.Anything, username).Return(found, nil).Once()

		usr, err := service.FindUserByEmailOrUsername(context.Background(), "miss@example.com", username)

		require.NoError(t, err)
		require.NotNil(t, usr)
		assert.Equal(t, found.ID, usr.ID)
	})

	t.Run("double miss returns nil nil", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo)

		repo.On("FindByEmail", mock.Anything, "miss@example.com").
			Return(nil, common.ErrNotFound.WithDetails("User not found.")).Once()
		repo.On("FindByUsername", mock.Anything, "ghost").
			Return(nil, common.ErrNotFound.WithDetails("User not found.")).Once()

		usr, err := service.FindUserByEmailOrUsername(context.Background(), "miss@example.com", "ghost")

		require.NoError(t, err, "a miss is the caller's policy decision, not an error")
		assert.Nil(t, usr)
	})

	t.Run("infrastructure error propagates", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo)

		repo.On("FindByEmail", mock.Anything, "down@example.com").
			Return(nil, errors.New("connection refused")).Once()

		_, err := service.FindUserByEmailOrUsername(context.Background(), "down@example.com", "")
		require.Error(t, err)
	})
}

func TestUpdateProfile_BlankUsernameRejected(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo)

	existing := &User{BaseModel: common.BaseModel{ID: uuid.New()}, FirebaseUID: "fb"}
	repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil).Once()

	blank := "   "
	_, err := service.UpdateProfile(context.Background(), existing.ID, UpdateProfileRequest{Username: &blank})

	require.Error(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
