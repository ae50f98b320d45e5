package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/corkboard/internal/domain"
	"github.com/gosuda/corkboard/internal/hub"
)

type CreateCommentInput struct {
	ItemID uuid.UUID `path:"itemID" doc:"Item ID"`
	Body   struct {
		Body string `json:"body" minLength:"1" maxLength:"10000" doc:"Comment text"`
	}
}

type CreateCommentOutput struct {
	Body *domain.Comment
}

type ListCommentsInput struct {
	ItemID uuid.UUID `path:"itemID" doc:"Item ID"`
}

type ListCommentsOutput struct {
	Body []*domain.Comment
}

type DeleteCommentInput struct {
	ID uuid.UUID `path:"id" doc:"Comment ID"`
}

func RegisterCommentRoutes(api huma.API, store DataStore, events EventPublisher) {
	huma.Register(api, huma.Operation{
		OperationID: "create-comment",
		Method:      http.MethodPost,
		Path:        "/items/{itemID}/comments",
		Summary:     "Comment on an item",
		Tags:        []string{"Comments"},
	}, func(ctx context.Context, input *CreateCommentInput) (*CreateCommentOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		item, err := store.Items().GetByID(ctx, input.ItemID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("item not found")
			}
			return nil, huma.Error500InternalServerError("failed to get item", err)
		}

		// Viewers may comment; editing rights are not required.
		if err := requireView(ctx, store, userID, item.BoardID); err != nil {
			return nil, err
		}

		c := &domain.Comment{
			ID:        uuid.New(),
			ItemID:    item.ID,
			BoardID:   item.BoardID,
			AuthorID:  userID,
			Body:      input.Body.Body,
			CreatedAt: time.Now(),
		}

		if err := store.Comments().Create(ctx, c); err != nil {
			return nil, huma.Error500InternalServerError("failed to create comment", err)
		}

		events.PublishBoardEvent(ctx, hub.EventCommentCreated, c.BoardID, c, userID)
		recordAudit(ctx, store, userID, "create", "comment", c.ID, map[string]any{"item_id": c.ItemID.String()})

		return &CreateCommentOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-comments",
		Method:      http.MethodGet,
		Path:        "/items/{itemID}/comments",
		Summary:     "List comments on an item",
		Tags:        []string{"Comments"},
	}, func(ctx context.Context, input *ListCommentsInput) (*ListCommentsOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		item, err := store.Items().GetByID(ctx, input.ItemID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("item not found")
			}
			return nil, huma.Error500InternalServerError("failed to get item", err)
		}

		if err := requireView(ctx, store, userID, item.BoardID); err != nil {
			return nil, err
		}

		comments, err := store.Comments().ListByItem(ctx, input.ItemID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list comments", err)
		}

		return &ListCommentsOutput{Body: comments}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-comment",
		Method:      http.MethodDelete,
		Path:        "/comments/{id}",
		Summary:     "Delete a comment",
		Tags:        []string{"Comments"},
	}, func(ctx context.Context, input *DeleteCommentInput) (*struct{}, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		c, err := store.Comments().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("comment not found")
			}
			return nil, huma.Error500InternalServerError("failed to get comment", err)
		}

		// Authors can delete their own comments; the board owner can
		// delete anyone's.
		if c.AuthorID != userID {
			board, err := store.Boards().GetByID(ctx, c.BoardID)
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to get board", err)
			}
			if board.OwnerID != userID {
				return nil, huma.Error403Forbidden("cannot delete another user's comment")
			}
		}

		if err := store.Comments().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete comment", err)
		}

		recordAudit(ctx, store, userID, "delete", "comment", input.ID, nil)

		return nil, nil
	})
}
