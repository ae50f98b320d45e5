package v1_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/corkboard/internal/api/v1"
	"github.com/gosuda/corkboard/internal/domain"
)

func TestGrantShare(t *testing.T) {
	t.Parallel()

	t.Run("owner_grants_and_cache_invalidated", func(t *testing.T) {
		t.Parallel()

		owner := uuid.New()
		grantee := uuid.New()
		bid := uuid.New()
		var created *domain.Share

		_, api := humatest.New(t)
		store := &mockDataStore{
			boards: &mockBoardRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Board, error) {
					return &domain.Board{ID: id, OwnerID: owner}, nil
				},
			},
			users: &mockUserRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
					return &domain.User{ID: id}, nil
				},
			},
			shares: &mockShareRepo{
				createFunc: func(_ context.Context, s *domain.Share) error {
					created = s
					return nil
				},
			},
			audit: nopAudit{},
		}
		inv := &recordingInvalidator{}
		v1.RegisterShareRoutes(api, store, inv)

		resp := api.PostCtx(userCtx(owner), "/boards/"+bid.String()+"/shares", map[string]any{
			"user_id": grantee.String(),
			"role":    "editor",
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, created)
		assert.Equal(t, domain.ShareRoleEditor, created.Role)
		assert.Equal(t, owner, created.GrantedBy)

		calls := inv.invalidated()
		require.Len(t, calls, 1)
		assert.Equal(t, grantee, calls[0][0])
		assert.Equal(t, bid, calls[0][1])
	})

	t.Run("non_owner_403", func(t *testing.T) {
		t.Parallel()

		bid := uuid.New()

		_, api := humatest.New(t)
		store := &mockDataStore{
			boards: &mockBoardRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Board, error) {
					return &domain.Board{ID: id, OwnerID: uuid.New()}, nil
				},
			},
		}
		inv := &recordingInvalidator{}
		v1.RegisterShareRoutes(api, store, inv)

		resp := api.PostCtx(userCtx(uuid.New()), "/boards/"+bid.String()+"/shares", map[string]any{
			"user_id": uuid.New().String(),
			"role":    "viewer",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Empty(t, inv.invalidated())
	})

	t.Run("cannot_share_with_owner", func(t *testing.T) {
		t.Parallel()

		owner := uuid.New()
		bid := uuid.New()

		_, api := humatest.New(t)
		store := &mockDataStore{
			boards: &mockBoardRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Board, error) {
					return &domain.Board{ID: id, OwnerID: owner}, nil
				},
			},
		}
		v1.RegisterShareRoutes(api, store, &recordingInvalidator{})

		resp := api.PostCtx(userCtx(owner), "/boards/"+bid.String()+"/shares", map[string]any{
			"user_id": owner.String(),
			"role":    "viewer",
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestRevokeShare(t *testing.T) {
	t.Parallel()

	t.Run("owner_revokes_and_cache_invalidated", func(t *testing.T) {
		t.Parallel()

		owner := uuid.New()
		grantee := uuid.New()
		bid := uuid.New()
		deleted := false

		_, api := humatest.New(t)
		store := &mockDataStore{
			boards: &mockBoardRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Board, error) {
					return &domain.Board{ID: id, OwnerID: owner}, nil
				},
			},
			shares: &mockShareRepo{
				deleteFunc: func(_ context.Context, boardID, userID uuid.UUID) error {
					assert.Equal(t, bid, boardID)
					assert.Equal(t, grantee, userID)
					deleted = true
					return nil
				},
			},
			audit: nopAudit{},
		}
		inv := &recordingInvalidator{}
		v1.RegisterShareRoutes(api, store, inv)

		resp := api.DeleteCtx(userCtx(owner), "/boards/"+bid.String()+"/shares/"+grantee.String())

		assert.Equal(t, http.StatusNoContent, resp.Code)
		assert.True(t, deleted)
		require.Len(t, inv.invalidated(), 1)
	})

	t.Run("missing_share_404", func(t *testing.T) {
		t.Parallel()

		owner := uuid.New()
		bid := uuid.New()

		_, api := humatest.New(t)
		store := &mockDataStore{
			boards: &mockBoardRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Board, error) {
					return &domain.Board{ID: id, OwnerID: owner}, nil
				},
			},
			shares: &mockShareRepo{
				deleteFunc: func(_ context.Context, _, _ uuid.UUID) error {
					return domain.ErrNotFound
				},
			},
		}
		v1.RegisterShareRoutes(api, store, &recordingInvalidator{})

		resp := api.DeleteCtx(userCtx(owner), "/boards/"+bid.String()+"/shares/"+uuid.New().String())

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestListShares(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	bid := uuid.New()

	_, api := humatest.New(t)
	store := &mockDataStore{
		boards: &mockBoardRepo{
			getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Board, error) {
				return &domain.Board{ID: id, OwnerID: owner}, nil
			},
		},
		shares: &mockShareRepo{
			listByBoardFunc: func(_ context.Context, boardID uuid.UUID) ([]*domain.Share, error) {
				assert.Equal(t, bid, boardID)
				return []*domain.Share{
					{ID: uuid.New(), BoardID: bid, UserID: uuid.New(), Role: domain.ShareRoleViewer},
				}, nil
			},
		},
	}
	v1.RegisterShareRoutes(api, store, &recordingInvalidator{})

	resp := api.GetCtx(userCtx(owner), "/boards/"+bid.String()+"/shares")

	assert.Equal(t, http.StatusOK, resp.Code)
}
