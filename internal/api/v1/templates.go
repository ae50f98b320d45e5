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

type CreateTemplateInput struct {
	Body struct {
		Name              string         `json:"name" minLength:"1" maxLength:"255" doc:"Template name"`
		Description       string         `json:"description,omitempty" doc:"Template description"`
		Statuses          []string       `json:"statuses" minItems:"1" doc:"Column statuses for boards created from this template"`
		DefaultProperties map[string]any `json:"default_properties,omitempty" doc:"Properties stamped onto new items"`
	}
}

type CreateTemplateOutput struct {
	Body *domain.Template
}

type ListTemplatesOutput struct {
	Body []*domain.Template
}

type GetTemplateInput struct {
	ID uuid.UUID `path:"id" doc:"Template ID"`
}

type GetTemplateOutput struct {
	Body *domain.Template
}

type UpdateTemplateInput struct {
	ID   uuid.UUID `path:"id" doc:"Template ID"`
	Body struct {
		Name              string         `json:"name,omitempty" maxLength:"255" doc:"Template name"`
		Description       string         `json:"description,omitempty" doc:"Template description"`
		Statuses          []string       `json:"statuses,omitempty" doc:"Column statuses"`
		DefaultProperties map[string]any `json:"default_properties,omitempty" doc:"Properties stamped onto new items"`
	}
}

type UpdateTemplateOutput struct {
	Body *domain.Template
}

type DeleteTemplateInput struct {
	ID uuid.UUID `path:"id" doc:"Template ID"`
}

func RegisterTemplateRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-template",
		Method:      http.MethodPost,
		Path:        "/templates",
		Summary:     "Create a board template",
		Tags:        []string{"Templates"},
	}, func(ctx context.Context, input *CreateTemplateInput) (*CreateTemplateOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		t := &domain.Template{
			ID:                uuid.New(),
			OwnerID:           userID,
			Name:              input.Body.Name,
			Description:       input.Body.Description,
			Statuses:          input.Body.Statuses,
			DefaultProperties: input.Body.DefaultProperties,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		if err := store.Templates().Create(ctx, t); err != nil {
			return nil, huma.Error500InternalServerError("failed to create template", err)
		}

		recordAudit(ctx, store, userID, "create", "template", t.ID, map[string]any{"name": t.Name})

		return &CreateTemplateOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-templates",
		Method:      http.MethodGet,
		Path:        "/templates",
		Summary:     "List board templates",
		Tags:        []string{"Templates"},
	}, func(ctx context.Context, _ *struct{}) (*ListTemplatesOutput, error) {
		if _, err := userFromContext(ctx); err != nil {
			return nil, err
		}

		templates, err := store.Templates().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list templates", err)
		}

		return &ListTemplatesOutput{Body: templates}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-template",
		Method:      http.MethodGet,
		Path:        "/templates/{id}",
		Summary:     "Get a template by ID",
		Tags:        []string{"Templates"},
	}, func(ctx context.Context, input *GetTemplateInput) (*GetTemplateOutput, error) {
		if _, err := userFromContext(ctx); err != nil {
			return nil, err
		}

		t, err := store.Templates().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("template not found")
			}
			return nil, huma.Error500InternalServerError("failed to get template", err)
		}

		return &GetTemplateOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-template",
		Method:      http.MethodPut,
		Path:        "/templates/{id}",
		Summary:     "Update a template",
		Tags:        []string{"Templates"},
	}, func(ctx context.Context, input *UpdateTemplateInput) (*UpdateTemplateOutput, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Templates().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("template not found")
			}
			return nil, huma.Error500InternalServerError("failed to get template", err)
		}

		if existing.OwnerID != userID {
			return nil, huma.Error403Forbidden("only the template owner can modify it")
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.Description != "" {
			existing.Description = input.Body.Description
		}
		if len(input.Body.Statuses) > 0 {
			existing.Statuses = input.Body.Statuses
		}
		if input.Body.DefaultProperties != nil {
			existing.DefaultProperties = input.Body.DefaultProperties
		}
		existing.UpdatedAt = time.Now()

		if err := store.Templates().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update template", err)
		}

		recordAudit(ctx, store, userID, "update", "template", existing.ID, nil)

		return &UpdateTemplateOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-template",
		Method:      http.MethodDelete,
		Path:        "/templates/{id}",
		Summary:     "Delete a template",
		Tags:        []string{"Templates"},
	}, func(ctx context.Context, input *DeleteTemplateInput) (*struct{}, error) {
		userID, err := userFromContext(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Templates().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("template not found")
			}
			return nil, huma.Error500InternalServerError("failed to get template", err)
		}

		if existing.OwnerID != userID {
			return nil, huma.Error403Forbidden("only the template owner can delete it")
		}

		if err := store.Templates().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete template", err)
		}

		recordAudit(ctx, store, userID, "delete", "template", input.ID, map[string]any{"name": existing.Name})

		return nil, nil
	})
}
