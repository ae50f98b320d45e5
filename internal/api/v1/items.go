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

type CreateItemInput struct {
	Body struct {
		BoardID     uuid.UUID      `json:"board_id" doc:"Board ID"`
		Title       string         `json:"title" minLength:"1" maxLength:"500" doc:"Item title"`
		Description string         `json:"description,omitempty" doc:"Item description"`
		Status      string         `json:"status,omitempty" doc:"Initial status (defaults to todo)"`
		Position    int            `json:"position,omitempty" doc:"Sort position within the column"`
		Properties  map[string]any `json:"properties,omitempty" doc:"Free-form property bag"`
		AssignedTo  *uuid.UUID     `json:"assigned_to,omitempty" doc:"Assigned user ID"`
	}
}

type CreateItemOutput struct {
	Body *domain.Item
}

type ListItemsInput struct {
	BoardID uuid.UUID `query:"board_id" required:"true" doc:"Board ID"`
}

type ListItemsOutput struct {
	Body []*domain.Item
}

type GetItemInput struct {
	ID uuid.UUID `path:"id" doc:"Item ID"`
}

type GetItemOutput struct {
	Body *domain.Item
}

type UpdateItemInput struct {
	ID   uuid.UUID `path:"id" doc:"Item ID"`
	Body struct {
		Title       string     `json:"title,omitempty" maxLength:"500" doc:"Item title"`
		Description string     `json:"description,omitempty" doc:"Item description"`
		Status      string     `json:"status,omitempty" doc:"Item status"`
		Position    *int       `json:"position,omitempty" doc:"Sort position within the column"`
		AssignedTo  *uuid.UUID `json:"assigned_to,omitempty" doc:"Assigned user ID"`
	}
}

type UpdateItemOutput struct {
	Body *domain.Item
}

type SetItemPropertyInput struct {
	ID   uuid.UUID `path:"id" doc:"Item ID"`
	Key  string    `path:"key" minLength:"1" maxLength:"255" doc:"Property key"`
	Body struct {
		Value any `json:"value" doc:"Property value; null removes the key"`
	}
}

type SetItemPropertyOutput struct {
	Body *domain.Item
}

type DeleteItemInput struct {
	ID uuid.UUID `path:"id" doc:"Item ID"`
}

type itemDeletedPayload struct {
	ItemID  uuid.UUID `json:"item_id"`
	BoardID uuid.UUID `json:"board_id"`
}

type propertyUpdatedPayload struct {
	ItemID uuid.UUID `json:"item_id"`
	Key    string    `json:"key"`
	Value  any       `json:"value"`
}

func RegisterItemRoutes(api huma.API, store DataStore, events EventPublisher) {
	huma.Register(api, huma.Operation{
		OperationID: "create-item",
		Method:      http.MethodPost,
		Path:        "/items",
		Summary:     "Create a new item",
		Tags:        []string{"Items"},
	}, func(ctx context.Context, input *CreateItemInput) (*CreateItemOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		if err := requireEdit(ctx, store, userID, input.Body.BoardID); err != nil {
			return nil, err
		}

		status := domain.ItemStatusTodo
		if input.Body.Status != "" {
			status = domain.ItemStatus(input.Body.Status)
			if !status.Valid() {
				return nil, huma.Error400BadRequest("unknown item status: " + input.Body.Status)
			}
		}

		props := input.Body.Properties
		if props == nil {
			props = make(map[string]any)
		}

		// Boards created from a template stamp the template's default
		// properties onto new items; explicit values win.
		board, err := store.Boards().GetByID(ctx, input.Body.BoardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to get board", err)
		}
		if board.TemplateID != nil {
			tmpl, err := store.Templates().GetByID(ctx, *board.TemplateID)
			if err == nil {
				for k, v := range tmpl.DefaultProperties {
					if _, set := props[k]; !set {
						props[k] = v
					}
				}
			}
		}

		now := time.Now()
		it := &domain.Item{
			ID:          uuid.New(),
			BoardID:     input.Body.BoardID,
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Status:      status,
			Position:    input.Body.Position,
			Properties:  props,
			AssignedTo:  input.Body.AssignedTo,
			CreatedBy:   userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Items().Create(ctx, it); err != nil {
			return nil, huma.Error500InternalServerError("failed to create item", err)
		}

		events.PublishBoardEvent(ctx, hub.EventItemCreated, it.BoardID, it, userID)
		recordAudit(ctx, store, userID, "create", "item", it.ID, map[string]any{"board_id": it.BoardID.String()})

		return &CreateItemOutput{Body: it}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-items",
		Method:      http.MethodGet,
		Path:        "/items",
		Summary:     "List items on a board",
		Tags:        []string{"Items"},
	}, func(ctx context.Context, input *ListItemsInput) (*ListItemsOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		if err := requireView(ctx, store, userID, input.BoardID); err != nil {
			return nil, err
		}

		items, err := store.Items().ListByBoard(ctx, input.BoardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list items", err)
		}

		return &ListItemsOutput{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-item",
		Method:      http.MethodGet,
		Path:        "/items/{id}",
		Summary:     "Get an item by ID",
		Tags:        []string{"Items"},
	}, func(ctx context.Context, input *GetItemInput) (*GetItemOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		it, err := store.Items().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("item not found")
			}
			return nil, huma.Error500InternalServerError("failed to get item", err)
		}

		if err := requireView(ctx, store, userID, it.BoardID); err != nil {
			return nil, err
		}

		return &GetItemOutput{Body: it}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-item",
		Method:      http.MethodPut,
		Path:        "/items/{id}",
		Summary:     "Update an item",
		Tags:        []string{"Items"},
	}, func(ctx context.Context, input *UpdateItemInput) (*UpdateItemOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Items().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("item not found")
			}
			return nil, huma.Error500InternalServerError("failed to get item", err)
		}

		if err := requireEdit(ctx, store, userID, existing.BoardID); err != nil {
			return nil, err
		}

		if input.Body.Title != "" {
			existing.Title = input.Body.Title
		}
		if input.Body.Description != "" {
			existing.Description = input.Body.Description
		}
		if input.Body.Status != "" {
			status := domain.ItemStatus(input.Body.Status)
			if !status.Valid() {
				return nil, huma.Error400BadRequest("unknown item status: " + input.Body.Status)
			}
			existing.Status = status
		}
		if input.Body.Position != nil {
			existing.Position = *input.Body.Position
		}
		if input.Body.AssignedTo != nil {
			existing.AssignedTo = input.Body.AssignedTo
		}
		existing.UpdatedAt = time.Now()

		if err := store.Items().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update item", err)
		}

		events.PublishBoardEvent(ctx, hub.EventItemUpdated, existing.BoardID, existing, userID)
		recordAudit(ctx, store, userID, "update", "item", existing.ID, nil)

		return &UpdateItemOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-item-property",
		Method:      http.MethodPatch,
		Path:        "/items/{id}/properties/{key}",
		Summary:     "Set or remove a single item property",
		Tags:        []string{"Items"},
	}, func(ctx context.Context, input *SetItemPropertyInput) (*SetItemPropertyOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Items().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("item not found")
			}
			return nil, huma.Error500InternalServerError("failed to get item", err)
		}

		if err := requireEdit(ctx, store, userID, existing.BoardID); err != nil {
			return nil, err
		}

		if err := store.Items().SetProperty(ctx, input.ID, input.Key, input.Body.Value); err != nil {
			return nil, huma.Error500InternalServerError("failed to set item property", err)
		}

		if input.Body.Value == nil {
			delete(existing.Properties, input.Key)
		} else {
			if existing.Properties == nil {
				existing.Properties = make(map[string]any)
			}
			existing.Properties[input.Key] = input.Body.Value
		}
		existing.UpdatedAt = time.Now()

		events.PublishBoardEvent(ctx, hub.EventPropertyUpdated, existing.BoardID, propertyUpdatedPayload{
			ItemID: existing.ID,
			Key:    input.Key,
			Value:  input.Body.Value,
		}, userID)
		recordAudit(ctx, store, userID, "update", "item", existing.ID, map[string]any{"property": input.Key})

		return &SetItemPropertyOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-item",
		Method:      http.MethodDelete,
		Path:        "/items/{id}",
		Summary:     "Delete an item",
		Tags:        []string{"Items"},
	}, func(ctx context.Context, input *DeleteItemInput) (*struct{}, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Items().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("item not found")
			}
			return nil, huma.Error500InternalServerError("failed to get item", err)
		}

		if err := requireEdit(ctx, store, userID, existing.BoardID); err != nil {
			return nil, err
		}

		if err := store.Items().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete item", err)
		}

		events.PublishBoardEvent(ctx, hub.EventItemDeleted, existing.BoardID, itemDeletedPayload{
			ItemID:  existing.ID,
			BoardID: existing.BoardID,
		}, userID)
		recordAudit(ctx, store, userID, "delete", "item", input.ID, map[string]any{"board_id": existing.BoardID.String()})

		return nil, nil
	})
}
