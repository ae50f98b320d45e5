package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/corkboard/internal/domain"
)

type GrantShareInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
	Body    struct {
		UserID uuid.UUID `json:"user_id" doc:"User to share the board with"`
		Role   string    `json:"role" enum:"viewer,editor" doc:"Access level"`
	}
}

type GrantShareOutput struct {
	Body *domain.Share
}

type ListSharesInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
}

type ListSharesOutput struct {
	Body []*domain.Share
}

type RevokeShareInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
	UserID  uuid.UUID `path:"userID" doc:"User whose access is revoked"`
}

// requireOwner loads the board and checks the caller owns it.
func requireOwner(ctx context.Context, store DataStore, userID, boardID uuid.UUID) (*domain.Board, error) {
	board, err := store.Boards().GetByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("board not found")
		}
		return nil, huma.Error500InternalServerError("failed to get board", err)
	}
	if board.OwnerID != userID {
		return nil, huma.Error403Forbidden("only the board owner can manage shares")
	}
	return board, nil
}

func RegisterShareRoutes(api huma.API, store DataStore, access AccessInvalidator) {
	huma.Register(api, huma.Operation{
		OperationID: "grant-share",
		Method:      http.MethodPost,
		Path:        "/boards/{boardID}/shares",
		Summary:     "Share a board with another user",
		Tags:        []string{"Shares"},
	}, func(ctx context.Context, input *GrantShareInput) (*GrantShareOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		board, err := requireOwner(ctx, store, userID, input.BoardID)
		if err != nil {
			return nil, err
		}

		if input.Body.UserID == board.OwnerID {
			return nil, huma.Error400BadRequest("cannot share a board with its owner")
		}

		role := domain.ShareRole(input.Body.Role)
		if !role.Valid() {
			return nil, huma.Error400BadRequest("unknown share role: " + input.Body.Role)
		}

		if _, err := store.Users().GetByID(ctx, input.Body.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate user", err)
		}

		s := &domain.Share{
			ID:        uuid.New(),
			BoardID:   input.BoardID,
			UserID:    input.Body.UserID,
			GrantedBy: userID,
			Role:      role,
			CreatedAt: time.Now(),
		}

		if err := store.Shares().Create(ctx, s); err != nil {
			return nil, huma.Error500InternalServerError("failed to grant share", err)
		}

		// Role changes must take effect immediately, not after cache TTL.
		access.Invalidate(ctx, input.Body.UserID, input.BoardID)
		recordAudit(ctx, store, userID, "grant", "share", s.ID, map[string]any{
			"board_id": input.BoardID.String(),
			"user_id":  input.Body.UserID.String(),
			"role":     string(role),
		})

		return &GrantShareOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-shares",
		Method:      http.MethodGet,
		Path:        "/boards/{boardID}/shares",
		Summary:     "List users a board is shared with",
		Tags:        []string{"Shares"},
	}, func(ctx context.Context, input *ListSharesInput) (*ListSharesOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := requireOwner(ctx, store, userID, input.BoardID); err != nil {
			return nil, err
		}

		shares, err := store.Shares().ListByBoard(ctx, input.BoardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list shares", err)
		}

		return &ListSharesOutput{Body: shares}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "revoke-share",
		Method:      http.MethodDelete,
		Path:        "/boards/{boardID}/shares/{userID}",
		Summary:     "Revoke a user's access to a board",
		Tags:        []string{"Shares"},
	}, func(ctx context.Context, input *RevokeShareInput) (*struct{}, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := requireOwner(ctx, store, userID, input.BoardID); err != nil {
			return nil, err
		}

		if err := store.Shares().Delete(ctx, input.BoardID, input.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("share not found")
			}
			return nil, huma.Error500InternalServerError("failed to revoke share", err)
		}

		access.Invalidate(ctx, input.UserID, input.BoardID)
		recordAudit(ctx, store, userID, "revoke", "share", input.BoardID, map[string]any{
			"board_id": input.BoardID.String(),
			"user_id":  input.UserID.String(),
		})

		return nil, nil
	})
}
