// File: internal/property/service_test.go
package property

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"estatehub_backend/internal/common"
	"estatehub_backend/internal/config"
	"estatehub_backend/internal/filestorage"
	"estatehub_backend/internal/notification"
	"estatehub_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testStorageBaseURL = "http://localhost:8080/uploads"

// MockRepository is a mock for the property Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, property *Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Property), args.Error(1)
}

func (m *MockRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Property, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Property), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, property *Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) Search(ctx context.Context, query PropertySearchQuery) ([]Property, *common.Pagination, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Property), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockRepository) FindAssignedToUser(ctx context.Context, userID uuid.UUID) ([]Property, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Property), args.Error(1)
}

func (m *MockRepository) FindApprovedByUser(ctx context.Context, userID uuid.UUID) ([]Property, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Property), args.Error(1)
}

func (m *MockRepository) FindAllPublic(ctx context.Context) ([]Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Property), args.Error(1)
}

// MockIndexer is a mock for the SearchIndexer.
type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *MockIndexer) Index(ctx context.Context, p *Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockIndexer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockIndexer) SearchIDs(ctx context.Context, term string, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, term, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockNotificationService is a mock for the notification Service.
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Create(ctx context.Context, input notification.CreateNotificationInput) (*notification.Notification, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationService) GetForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) ([]notification.Notification, *common.Pagination, error) {
	args := m.Called(ctx, userID, unreadOnly, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]notification.Notification), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error {
	return m.Called(ctx, notificationID, userID).Error(0)
}

func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) PurgeRead(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type serviceFixture struct {
	service       Service
	repo          *MockRepository
	indexer       *MockIndexer
	users         *MockUserService
	notifications *MockNotificationService
	storage       *filestorage.FileStorageService
	storageDir    string
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	repo := new(MockRepository)
	indexer := new(MockIndexer)
	users := new(MockUserService)
	notifications := new(MockNotificationService)

	storageDir := t.TempDir()
	storage, err := filestorage.NewFileStorageService(&config.Config{
		StorageBasePath: storageDir,
		StorageBaseURL:  testStorageBaseURL,
	}, zap.NewNop())
	require.NoError(t, err)

	resolver := NewAssignmentResolver(users, zap.NewNop())
	service := NewService(repo, resolver, storage, indexer, notifications, &config.Config{}, zap.NewNop())

	return &serviceFixture{
		service:       service,
		repo:          repo,
		indexer:       indexer,
		users:         users,
		notifications: notifications,
		storage:       storage,
		storageDir:    storageDir,
	}
}

func validCreateRequest() CreatePropertyRequest {
	return CreatePropertyRequest{
		Title:       "Sunny Two-Bedroom Apartment",
		Description: "Bright corner unit with a view over the park and a renovated kitchen.",
		Price:       325000,
		Location:    "Addis Ababa, Bole",
		Bedrooms:    2,
		Bathrooms:   1,
		Size:        86.5,
		Amenities:   []string{"parking", "elevator"},
		Type:        "apartment",
		YearBuilt:   2015,
	}
}

func TestService_Create_PublishesImmediatelyWithoutAssignment(t *testing.T) {
	f := newServiceFixture(t)
	f.indexer.On("Enabled").Return(false)

	var created *Property
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*property.Property")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*Property) }).
		Return(nil).Once()

	actorID := uuid.New()
	property, warning, err := f.service.Create(context.Background(), actorID, validCreateRequest())

	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, StatusPublished, property.AssignmentStatus)
	assert.Nil(t, property.AssignedToUserID)
	assert.Nil(t, property.AssignedAt)
	assert.Equal(t, actorID, property.CreatedByID)
	assert.Equal(t, "sunny-two-bedroom-apartment", property.Slug)
	assert.Same(t, created, property)
	f.repo.AssertExpectations(t)
	f.users.AssertNotCalled(t, "FindUserByEmailOrUsername", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Create_AssignedTargetGoesPending(t *testing.T) {
	f := newServiceFixture(t)
	f.indexer.On("Enabled").Return(true)

	target := &shared.User{ID: uuid.New()}
	f.users.On("FindUserByEmailOrUsername", mock.Anything, "buyer@example.com", "").Return(target, nil).Once()
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*property.Property")).Return(nil).Once()
	// A pending property must never reach the public search index, so
	// the sync removes it instead of indexing it.
	f.indexer.On("Delete", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil).Once()
	f.notifications.On("Create", mock.Anything, mock.MatchedBy(func(input notification.CreateNotificationInput) bool {
		return input.UserID == target.ID &&
			input.Type == notification.PropertyAssigned &&
			input.RelatedPropertyID != nil
	})).Return(&notification.Notification{}, nil).Once()

	req := validCreateRequest()
	req.AssignedToEmail = "buyer@example.com"

	property, warning, err := f.service.Create(context.Background(), uuid.New(), req)

	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, StatusPending, property.AssignmentStatus)
	require.NotNil(t, property.AssignedToUserID)
	assert.Equal(t, target.ID, *property.AssignedToUserID)
	assert.NotNil(t, property.AssignedAt)
	require.NotNil(t, property.AssignedToEmail)
	assert.Equal(t, "buyer@example.com", *property.AssignedToEmail)
	f.repo.AssertExpectations(t)
	f.indexer.AssertExpectations(t)
	f.notifications.AssertExpectations(t)
}

func TestService_Create_UnresolvedTargetPublishesWithWarning(t *testing.T) {
	f := newServiceFixture(t)
	f.indexer.On("Enabled").Return(false)

	f.users.On("FindUserByEmailOrUsername", mock.Anything, "ghost@example.com", "").Return(nil, nil).Once()
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*property.Property")).Return(nil).Once()

	req := validCreateRequest()
	req.AssignedToEmail = "ghost@example.com"

	property, warning, err := f.service.Create(context.Background(), uuid.New(), req)

	require.NoError(t, err)
	assert.Equal(t, StatusPublished, property.AssignmentStatus)
	assert.Nil(t, property.AssignedToUserID)
	assert.Contains(t, warning, `"ghost@example.com"`)
	// The requested handle is kept for the audit trail even though the
	// assignment fell through.
	require.NotNil(t, property.AssignedToEmail)
	assert.Equal(t, "ghost@example.com", *property.AssignedToEmail)
}

func TestService_Create_ResolverInfrastructureFailure(t *testing.T) {
	f := newServiceFixture(t)

	f.users.On("FindUserByEmailOrUsername", mock.Anything, "buyer@example.com", "").
		Return(nil, errors.New("connection refused")).Once()

	req := validCreateRequest()
	req.AssignedToEmail = "buyer@example.com"

	_, _, err := f.service.Create(context.Background(), uuid.New(), req)

	require.Error(t, err)
	var apiErr *common.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_GetByID_PendingVisibility(t *testing.T) {
	assignee := uuid.New()
	pending := &Property{
		BaseModel:        common.BaseModel{ID: uuid.New()},
		AssignmentStatus: StatusPending,
		AssignedToUserID: &assignee,
	}

	cases := []struct {
		name      string
		actorID   uuid.UUID
		actorRole string
		wantFound bool
	}{
		{"assigned user sees it", assignee, common.RoleUser, true},
		{"admin sees it", uuid.New(), common.RoleAdmin, true},
		{"stranger gets not found", uuid.New(), common.RoleUser, false},
		{"anonymous gets not found", uuid.Nil, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newServiceFixture(t)
			f.repo.On("FindByID", mock.Anything, pending.ID).Return(pending, nil).Once()

			got, err := f.service.GetByID(context.Background(), pending.ID, tc.actorID, tc.actorRole)

			if tc.wantFound {
				require.NoError(t, err)
				assert.Equal(t, pending.ID, got.ID)
				return
			}
			require.Error(t, err)
			var apiErr *common.APIError
			require.ErrorAs(t, err, &apiErr)
			// Hidden, not forbidden. A 403 would leak that the
			// property exists.
			assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		})
	}
}

func TestService_GetByID_PublicVisibleToAnyone(t *testing.T) {
	f := newServiceFixture(t)

	published := &Property{
		BaseModel:        common.BaseModel{ID: uuid.New()},
		AssignmentStatus: StatusPublished,
	}
	f.repo.On("FindByID", mock.Anything, published.ID).Return(published, nil).Once()

	got, err := f.service.GetByID(context.Background(), published.ID, uuid.Nil, "")
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)
}

func TestService_ApproveAndPublish_ByAssignedUser(t *testing.T) {
	f := newServiceFixture(t)
	f.indexer.On("Enabled").Return(true)

	assignee := uuid.New()
	pending := &Property{
		BaseModel:        common.BaseModel{ID: uuid.New()},
		AssignmentStatus: StatusPending,
		AssignedToUserID: &assignee,
	}
	f.repo.On("FindByID", mock.Anything, pending.ID).Return(pending, nil).Once()
	f.repo.On("Update", mock.Anything, pending).Return(nil).Once()
	f.indexer.On("Index", mock.Anything, pending).Return(nil).Once()

	got, err := f.service.ApproveAndPublish(context.Background(), pending.ID, assignee, common.RoleUser)

	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.AssignmentStatus)
	require.NotNil(t, got.ApprovedAt)
	assert.WithinDuration(t, time.Now(), *got.ApprovedAt, time.Minute)
	f.repo.AssertExpectations(t)
	f.indexer.AssertExpectations(t)
}

func TestService_ApproveAndPublish_WrongActorForbidden(t *testing.T) {
	f := newServiceFixture(t)

	assignee := uuid.New()
	pending := &Property{
		BaseModel:        common.BaseModel{ID: uuid.New()},
		AssignmentStatus: StatusPending,
		AssignedToUserID: &assignee,
	}
	f.repo.On("FindByID", mock.Anything, pending.ID).Return(pending, nil).Once()

	_, err := f.service.ApproveAndPublish(context.Background(), pending.ID, uuid.New(), common.RoleUser)

	require.Error(t, err)
	var apiErr *common.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_ApproveAndPublish_AdminMayActForAssignee(t *testing.T) {
	f := newServiceFixture(t)
	f.indexer.On("Enabled").Return(false)

	assignee := uuid.New()
	pending := &Property{
		BaseModel:        common.BaseModel{ID: uuid.New()},
		AssignmentStatus: StatusPending,
		AssignedToUserID: &assignee,
	}
	f.repo.On("FindByID", mock.Anything, pending.ID).Return(pending, nil).Once()
	f.repo.On("Update", mock.Anything, pending).Return(nil).Once()

	got, err := f.service.ApproveAndPublish(context.Background(), pending.ID, uuid.New(), common.RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.AssignmentStatus)
}

func TestService_ApproveAndPublish_NotPendingConflicts(t *testing.T) {
	for _, status := range []AssignmentStatus{StatusPublished, StatusApproved} {
		t.Run(string(status), func(t *testing.T) {
			f := newServiceFixture(t)

			assignee := uuid.New()
			property := &Property{
				BaseModel:        common.BaseModel{ID: uuid.New()},
				AssignmentStatus: status,
				AssignedToUserID: &assignee,
			}
			f.repo.On("FindByID", mock.Anything, property.ID).Return(property, nil).Once()

			_, err := f.service.ApproveAndPublish(context.Background(), property.ID, assignee, common.RoleUser)

			require.Error(t, err)
			var apiErr *common.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
		})
	}
}

func TestService_Delete_RemovesStoredImages(t *testing.T) {
	f := newServiceFixture(t)
	f.indexer.On("Enabled").Return(false)

	relativePath := saveTestImage(t, f)

	property := &Property{
		BaseModel: common.BaseModel{ID: uuid.New()},
		Images: []string{
			f.storage.PublicURL(relativePath),
			"https://cdn.example.com/external.jpg",
		},
		AssignmentStatus: StatusPublished,
	}
	f.repo.On("FindByID", mock.Anything, property.ID).Return(property, nil).Once()
	f.repo.On("Delete", mock.Anything, property.ID).Return(nil).Once()

	require.NoError(t, f.service.Delete(context.Background(), property.ID))
	f.repo.AssertExpectations(t)
}

func TestService_Delete_AbortsWhenImageRemovalFails(t *testing.T) {
	f := newServiceFixture(t)

	// A traversal path is rejected by the storage layer, standing in
	// for any blob-removal failure.
	property := &Property{
		BaseModel:        common.BaseModel{ID: uuid.New()},
		Images:           []string{testStorageBaseURL + "/../../etc/passwd"},
		AssignmentStatus: StatusPublished,
	}
	f.repo.On("FindByID", mock.Anything, property.ID).Return(property, nil).Once()

	err := f.service.Delete(context.Background(), property.ID)

	require.Error(t, err)
	var apiErr *common.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_Search_PinsPublicStatuses(t *testing.T) {
	f := newServiceFixture(t)
	f.indexer.On("Enabled").Return(false)

	f.repo.On("Search", mock.Anything, mock.MatchedBy(func(q PropertySearchQuery) bool {
		return assert.ObjectsAreEqual(PublicStatuses, q.Statuses)
	})).Return([]Property{}, common.NewPagination(0, 1, 10), nil).Once()

	query := PropertySearchQuery{}
	// A hostile caller cannot widen the visible state set.
	query.Statuses = []AssignmentStatus{StatusPending}

	_, _, err := f.service.Search(context.Background(), query)

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}

func TestService_AdminSearch_SeesEveryState(t *testing.T) {
	f := newServiceFixture(t)

	f.repo.On("Search", mock.Anything, mock.MatchedBy(func(q PropertySearchQuery) bool {
		return q.Statuses == nil
	})).Return([]Property{}, common.NewPagination(0, 1, 10), nil).Once()

	_, _, err := f.service.AdminSearch(context.Background(), PropertySearchQuery{})

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}

func TestService_Search_ViaIndexPreservesRelevanceAndVisibility(t *testing.T) {
	f := newServiceFixture(t)
	f.indexer.On("Enabled").Return(true)

	first := Property{BaseModel: common.BaseModel{ID: uuid.New()}, AssignmentStatus: StatusApproved}
	second := Property{BaseModel: common.BaseModel{ID: uuid.New()}, AssignmentStatus: StatusPublished}
	hidden := Property{BaseModel: common.BaseModel{ID: uuid.New()}, AssignmentStatus: StatusPending}

	ids := []uuid.UUID{first.ID, hidden.ID, second.ID}
	f.indexer.On("SearchIDs", mock.Anything, "park view", 500).Return(ids, nil).Once()
	// Hydration order differs from relevance order on purpose.
	f.repo.On("FindByIDs", mock.Anything, ids).Return([]Property{second, hidden, first}, nil).Once()

	query := PropertySearchQuery{SearchTerm: "park view"}
	query.Page = 1
	query.PageSize = 10

	results, pagination, err := f.service.Search(context.Background(), query)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, first.ID, results[0].ID, "relevance order must survive hydration")
	assert.Equal(t, second.ID, results[1].ID)
	assert.Equal(t, int64(2), pagination.TotalItems)
	f.indexer.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

func TestService_Search_FallsBackToDatabaseOnIndexError(t *testing.T) {
	f := newServiceFixture(t)
	f.indexer.On("Enabled").Return(true)
	f.indexer.On("SearchIDs", mock.Anything, "park", 500).Return(nil, errors.New("es unreachable")).Once()

	f.repo.On("Search", mock.Anything, mock.AnythingOfType("property.PropertySearchQuery")).
		Return([]Property{}, common.NewPagination(0, 1, 10), nil).Once()

	query := PropertySearchQuery{SearchTerm: "park"}
	query.Page = 1
	query.PageSize = 10

	_, _, err := f.service.Search(context.Background(), query)

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}

func TestService_ReindexAll_DisabledIsNoop(t *testing.T) {
	f := newServiceFixture(t)
	f.indexer.On("Enabled").Return(false)

	indexed, err := f.service.ReindexAll(context.Background())

	require.NoError(t, err)
	assert.Zero(t, indexed)
	f.repo.AssertNotCalled(t, "FindAllPublic", mock.Anything)
}

func TestService_ReindexAll_CountsSuccesses(t *testing.T) {
	f := newServiceFixture(t)
	f.indexer.On("Enabled").Return(true)

	a := Property{BaseModel: common.BaseModel{ID: uuid.New()}, AssignmentStatus: StatusPublished}
	b := Property{BaseModel: common.BaseModel{ID: uuid.New()}, AssignmentStatus: StatusApproved}
	f.repo.On("FindAllPublic", mock.Anything).Return([]Property{a, b}, nil).Once()
	f.indexer.On("Index", mock.Anything, mock.MatchedBy(func(p *Property) bool { return p.ID == a.ID })).
		Return(errors.New("mapping rejected")).Once()
	f.indexer.On("Index", mock.Anything, mock.MatchedBy(func(p *Property) bool { return p.ID == b.ID })).
		Return(nil).Once()

	indexed, err := f.service.ReindexAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, indexed)
}

// saveTestImage writes a file under the fixture's storage root and
// returns its storage-relative path.
func saveTestImage(t *testing.T, f *serviceFixture) string {
	t.Helper()

	relativePath := "properties/test-image.jpg"
	fullPath := filepath.Join(f.storageDir, filepath.FromSlash(relativePath))
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), os.ModePerm))
	require.NoError(t, os.WriteFile(fullPath, []byte("jpeg bytes"), 0644))
	return relativePath
}
