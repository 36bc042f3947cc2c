package mocks

import (
	"context"

	"github.com/gilby125/weekend-trip-api/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockFavoriteStore is a testify mock of db.FavoriteStore.
type MockFavoriteStore struct {
	mock.Mock
}

var _ db.FavoriteStore = (*MockFavoriteStore)(nil)

func (m *MockFavoriteStore) CreateFavorite(ctx context.Context, fav *db.Favorite) error {
	args := m.Called(ctx, fav)
	if args.Error(0) == nil && fav.ID == uuid.Nil {
		fav.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockFavoriteStore) GetFavorite(ctx context.Context, id uuid.UUID) (*db.Favorite, error) {
	args := m.Called(ctx, id)
	if f := args.Get(0); f != nil {
		return f.(*db.Favorite), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFavoriteStore) ListFavorites(ctx context.Context, limit, offset int) ([]db.Favorite, error) {
	args := m.Called(ctx, limit, offset)
	if f := args.Get(0); f != nil {
		return f.([]db.Favorite), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFavoriteStore) DeleteFavorite(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFavoriteStore) CountFavorites(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
