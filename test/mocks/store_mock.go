package mocks

import (
	"context"

	"github.com/gilby125/weekend-trip-api/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSavedSearchStore is a testify mock of db.SavedSearchStore.
type MockSavedSearchStore struct {
	mock.Mock
}

var _ db.SavedSearchStore = (*MockSavedSearchStore)(nil)

// CreateSavedSearch mimics the store by assigning an ID before recording the call.
func (m *MockSavedSearchStore) CreateSavedSearch(ctx context.Context, search *db.SavedSearch) error {
	args := m.Called(ctx, search)
	if args.Error(0) == nil && search.ID == uuid.Nil {
		search.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockSavedSearchStore) GetSavedSearch(ctx context.Context, id uuid.UUID) (*db.SavedSearch, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*db.SavedSearch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSavedSearchStore) ListSavedSearches(ctx context.Context, limit, offset int) ([]db.SavedSearch, error) {
	args := m.Called(ctx, limit, offset)
	if s := args.Get(0); s != nil {
		return s.([]db.SavedSearch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSavedSearchStore) DeleteSavedSearch(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSavedSearchStore) CountSavedSearches(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSavedSearchStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
