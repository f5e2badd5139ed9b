// File: internal/notification/service_test.go
package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"estatehub_backend/internal/common"
	"estatehub_backend/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock for the notification Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, notification *Notification) error {
	return m.Called(ctx, notification).Error(0)
}

func (m *MockRepository) GetByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) ([]Notification, *common.Pagination, error) {
	args := m.Called(ctx, userID, unreadOnly, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Notification), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockRepository) FindByID(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) (*Notification, error) {
	args := m.Called(ctx, notificationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Notification), args.Error(1)
}

func (m *MockRepository) MarkAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error {
	return m.Called(ctx, notificationID, userID).Error(0)
}

func (m *MockRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(repo Repository, cfg *config.Config) Service {
	if cfg == nil {
		cfg = &config.Config{NotificationRetentionDays: 90}
	}
	return NewService(repo, cfg, zap.NewNop())
}

func TestService_Create(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	userID := uuid.New()
	requestID := uuid.New()

	var created *Notification
	repo.On("Create", mock.Anything, mock.AnythingOfType("*notification.Notification")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*Notification) }).
		Return(nil).Once()

	got, err := service.Create(context.Background(), CreateNotificationInput{
		UserID:           userID,
		Type:             RequestApproved,
		Message:          "Your purchase request for Sunny Apartment was approved.",
		RelatedRequestID: &requestID,
	})

	require.NoError(t, err)
	assert.Same(t, created, got)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, RequestApproved, got.Type)
	assert.False(t, got.IsRead)
	require.NotNil(t, got.RelatedRequestID)
	assert.Equal(t, requestID, *got.RelatedRequestID)
	repo.AssertExpectations(t)
}

func TestService_Create_Validation(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	_, err := service.Create(context.Background(), CreateNotificationInput{
		Type:    RequestApproved,
		Message: "message without a recipient",
	})
	require.Error(t, err)

	_, err = service.Create(context.Background(), CreateNotificationInput{
		UserID:  uuid.New(),
		Type:    RequestApproved,
		Message: "   ",
	})
	require.Error(t, err)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_GetForUser(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	userID := uuid.New()
	unread := []Notification{{ID: uuid.New(), UserID: userID}}
	repo.On("GetByUserID", mock.Anything, userID, true, 1, 10).
		Return(unread, common.NewPagination(1, 1, 10), nil).Once()

	got, pagination, err := service.GetForUser(context.Background(), userID, true, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, unread, got)
	assert.Equal(t, int64(1), pagination.TotalItems)
	repo.AssertExpectations(t)
}

func TestService_MarkAsRead_DelegatesOwnershipCheck(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	notificationID := uuid.New()
	userID := uuid.New()
	repo.On("MarkAsRead", mock.Anything, notificationID, userID).Return(nil).Twice()

	// Repeating the call is safe: dismissing twice is not an error.
	require.NoError(t, service.MarkAsRead(context.Background(), notificationID, userID))
	require.NoError(t, service.MarkAsRead(context.Background(), notificationID, userID))
	repo.AssertExpectations(t)
}

func TestService_MarkAllAsRead(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	userID := uuid.New()
	repo.On("MarkAllAsRead", mock.Anything, userID).Return(int64(3), nil).Once()

	count, err := service.MarkAllAsRead(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestService_PurgeRead_UsesRetentionWindow(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, &config.Config{NotificationRetentionDays: 30})

	repo.On("DeleteReadBefore", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		expected := time.Now().AddDate(0, 0, -30)
		return cutoff.Sub(expected).Abs() < time.Minute
	})).Return(int64(12), nil).Once()

	purged, err := service.PurgeRead(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(12), purged)
	repo.AssertExpectations(t)
}

func TestService_PurgeRead_DefaultsRetentionWhenUnset(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, &config.Config{})

	repo.On("DeleteReadBefore", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		expected := time.Now().AddDate(0, 0, -90)
		return cutoff.Sub(expected).Abs() < time.Minute
	})).Return(int64(0), nil).Once()

	_, err := service.PurgeRead(context.Background())
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_PurgeRead_PropagatesError(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	repo.On("DeleteReadBefore", mock.Anything, mock.Anything).
		Return(int64(0), errors.New("db down")).Once()

	_, err := service.PurgeRead(context.Background())
	require.Error(t, err)
}
