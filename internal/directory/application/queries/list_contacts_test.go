package queries

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/rendezvous/internal/directory/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockContactRepo struct {
	mock.Mock
	domain.Repository
}

func (m *mockContactRepo) List(ctx context.Context) ([]domain.Contact, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *mockContactRepo) Search(ctx context.Context, query string) ([]domain.Contact, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func TestListContactsHandler_Handle(t *testing.T) {
	ctx := context.Background()
	all := []domain.Contact{{PrimaryEmail: "a@x.com", DisplayName: "Alice"}, {PrimaryEmail: "b@x.com", DisplayName: "Bob"}}

	t.Run("lists all", func(t *testing.T) {
		repo := new(mockContactRepo)
		repo.On("List", ctx).Return(all, nil)

		got, err := NewListContactsHandler(repo).Handle(ctx, ListContactsQuery{})
		require.NoError(t, err)
		assert.Equal(t, all, got)
	})

	t.Run("filters with search", func(t *testing.T) {
		repo := new(mockContactRepo)
		repo.On("Search", ctx, "bob").Return(all[1:], nil)

		got, err := NewListContactsHandler(repo).Handle(ctx, ListContactsQuery{Search: "bob"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
		repo.AssertNotCalled(t, "List", mock.Anything)
	})
}
