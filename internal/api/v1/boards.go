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

type CreateBoardInput struct {
	Body struct {
		Name        string     `json:"name" minLength:"1" maxLength:"255" doc:"Board name"`
		Description string     `json:"description,omitempty" doc:"Board description"`
		TemplateID  *uuid.UUID `json:"template_id,omitempty" doc:"Optional template to create the board from"`
	}
}

type CreateBoardOutput struct {
	Body *domain.Board
}

type ListBoardsOutput struct {
	Body []*domain.Board
}

type GetBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

type GetBoardOutput struct {
	Body *domain.Board
}

type UpdateBoardInput struct {
	ID   uuid.UUID `path:"id" doc:"Board ID"`
	Body struct {
		Name        string `json:"name,omitempty" maxLength:"255" doc:"Board name"`
		Description string `json:"description,omitempty" doc:"Board description"`
		Archived    *bool  `json:"archived,omitempty" doc:"Archive flag"`
	}
}

type UpdateBoardOutput struct {
	Body *domain.Board
}

type DeleteBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

type BoardViewInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

// BoardColumns groups a board's items by status.
type BoardColumns struct {
	Todo  []*domain.Item `json:"todo"`
	Doing []*domain.Item `json:"doing"`
	Done  []*domain.Item `json:"done"`
}

type BoardViewOutput struct {
	Body *BoardColumns
}

func RegisterBoardRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-board",
		Method:      http.MethodPost,
		Path:        "/boards",
		Summary:     "Create a new board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *CreateBoardInput) (*CreateBoardOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		if input.Body.TemplateID != nil {
			if _, err := store.Templates().GetByID(ctx, *input.Body.TemplateID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("template not found")
				}
				return nil, huma.Error500InternalServerError("failed to validate template", err)
			}
		}

		now := time.Now()
		b := &domain.Board{
			ID:          uuid.New(),
			OwnerID:     userID,
			TemplateID:  input.Body.TemplateID,
			Name:        input.Body.Name,
			Description: input.Body.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Boards().Create(ctx, b); err != nil {
			return nil, huma.Error500InternalServerError("failed to create board", err)
		}

		recordAudit(ctx, store, userID, "create", "board", b.ID, map[string]any{"name": b.Name})

		return &CreateBoardOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-boards",
		Method:      http.MethodGet,
		Path:        "/boards",
		Summary:     "List boards owned by or shared with the user",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, _ *struct{}) (*ListBoardsOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		boards, err := store.Boards().ListForUser(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list boards", err)
		}

		return &ListBoardsOutput{Body: boards}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/boards/{id}",
		Summary:     "Get a board by ID",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *GetBoardInput) (*GetBoardOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		if err := requireView(ctx, store, userID, input.ID); err != nil {
			return nil, err
		}

		b, err := store.Boards().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to get board", err)
		}

		return &GetBoardOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-board-view",
		Method:      http.MethodGet,
		Path:        "/boards/{id}/view",
		Summary:     "Get a board's items grouped by status",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *BoardViewInput) (*BoardViewOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		if err := requireView(ctx, store, userID, input.ID); err != nil {
			return nil, err
		}

		items, err := store.Items().ListByBoard(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list items for board view", err)
		}

		cols := &BoardColumns{
			Todo:  make([]*domain.Item, 0),
			Doing: make([]*domain.Item, 0),
			Done:  make([]*domain.Item, 0),
		}

		for _, it := range items {
			switch it.Status {
			case domain.ItemStatusTodo:
				cols.Todo = append(cols.Todo, it)
			case domain.ItemStatusDoing:
				cols.Doing = append(cols.Doing, it)
			case domain.ItemStatusDone:
				cols.Done = append(cols.Done, it)
			}
		}

		return &BoardViewOutput{Body: cols}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-board",
		Method:      http.MethodPut,
		Path:        "/boards/{id}",
		Summary:     "Update a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *UpdateBoardInput) (*UpdateBoardOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		if err := requireEdit(ctx, store, userID, input.ID); err != nil {
			return nil, err
		}

		existing, err := store.Boards().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to get board", err)
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.Description != "" {
			existing.Description = input.Body.Description
		}
		if input.Body.Archived != nil {
			existing.Archived = *input.Body.Archived
		}
		existing.UpdatedAt = time.Now()

		if err := store.Boards().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update board", err)
		}

		recordAudit(ctx, store, userID, "update", "board", existing.ID, nil)

		return &UpdateBoardOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-board",
		Method:      http.MethodDelete,
		Path:        "/boards/{id}",
		Summary:     "Delete a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *DeleteBoardInput) (*struct{}, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Boards().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to get board", err)
		}

		// Only the owner may delete a board; editors cannot.
		if existing.OwnerID != userID {
			return nil, huma.Error403Forbidden("only the board owner can delete it")
		}

		if err := store.Boards().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete board", err)
		}

		recordAudit(ctx, store, userID, "delete", "board", input.ID, map[string]any{"name": existing.Name})

		return nil, nil
	})
}
