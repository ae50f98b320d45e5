package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/corkboard/internal/domain"
	"github.com/gosuda/corkboard/internal/server/middleware"
)

type ListAuditInput struct {
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Max entries to return"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Entries to skip"`
}

type ListAuditOutput struct {
	Body []*domain.AuditEntry
}

type ListResourceAuditInput struct {
	Resource   string    `path:"resource" enum:"board,item,comment,template,share" doc:"Resource type"`
	ResourceID uuid.UUID `path:"resourceID" doc:"Resource ID"`
}

type ListResourceAuditOutput struct {
	Body []*domain.AuditEntry
}

func requireAdmin(ctx context.Context) error {
	role, ok := middleware.RoleFromContext(ctx)
	if !ok {
		return huma.Error401Unauthorized("authentication required")
	}
	if role != middleware.RoleAdmin {
		return huma.Error403Forbidden("admin role required")
	}
	return nil
}

func RegisterAuditRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-audit",
		Method:      http.MethodGet,
		Path:        "/audit",
		Summary:     "List recent audit entries",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ListAuditInput) (*ListAuditOutput, error) {
		if err := requireAdmin(ctx); err != nil {
			return nil, err
		}

		entries, err := store.Audit().ListRecent(ctx, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list audit entries", err)
		}

		return &ListAuditOutput{Body: entries}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-resource-audit",
		Method:      http.MethodGet,
		Path:        "/audit/{resource}/{resourceID}",
		Summary:     "List audit entries for a resource",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ListResourceAuditInput) (*ListResourceAuditOutput, error) {
		if err := requireAdmin(ctx); err != nil {
			return nil, err
		}

		entries, err := store.Audit().ListByResource(ctx, input.Resource, input.ResourceID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list audit entries", err)
		}

		return &ListResourceAuditOutput{Body: entries}, nil
	})
}
