// File: internal/setting/service_test.go
package setting

import (
	"context"
	"net/http"
	"testing"

	"estatehub_backend/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock for the setting Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Get(ctx context.Context, key string) (*Setting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Setting), args.Error(1)
}

func (m *MockRepository) Upsert(ctx context.Context, setting *Setting) error {
	return m.Called(ctx, setting).Error(0)
}

func TestService_Get(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	stored := &Setting{Key: KeyGlobalUserManual, Value: "# Welcome"}
	repo.On("Get", mock.Anything, KeyGlobalUserManual).Return(stored, nil).Once()

	got, err := service.Get(context.Background(), KeyGlobalUserManual)

	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestService_Get_InvalidKey(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	for _, key := range []string{"", "UPPER", "has space", "dash-ed", "sql;injection"} {
		_, err := service.Get(context.Background(), key)
		require.Error(t, err, "key %q should be rejected", key)
		var apiErr *common.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	}
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestService_Upsert(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *Setting) bool {
		return s.Key == KeyGlobalUserManual && s.Value == "# Updated manual"
	})).Return(nil).Once()

	got, err := service.Upsert(context.Background(), KeyGlobalUserManual, "# Updated manual")

	require.NoError(t, err)
	assert.Equal(t, "# Updated manual", got.Value)
	repo.AssertExpectations(t)
}

func TestService_Upsert_EmptyValueRejected(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	_, err := service.Upsert(context.Background(), KeyGlobalUserManual, "   ")

	require.Error(t, err)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
