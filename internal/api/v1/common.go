package v1

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/corkboard/internal/domain"
	"github.com/gosuda/corkboard/internal/server/middleware"
)

// userFromContext pulls the authenticated user ID injected by the auth
// middleware.
func userFromContext(ctx context.Context) (uuid.UUID, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, huma.Error401Unauthorized("authentication required")
	}
	return userID, nil
}

// requireView checks read access to a board. Boards the user cannot see are
// reported as not found rather than forbidden.
func requireView(ctx context.Context, store DataStore, userID, boardID uuid.UUID) error {
	ok, err := store.Boards().CanView(ctx, userID, boardID)
	if err != nil {
		return huma.Error500InternalServerError("failed to check board access", err)
	}
	if !ok {
		return huma.Error404NotFound("board not found")
	}
	return nil
}

// requireEdit checks write access to a board.
func requireEdit(ctx context.Context, store DataStore, userID, boardID uuid.UUID) error {
	if err := requireView(ctx, store, userID, boardID); err != nil {
		return err
	}
	ok, err := store.Boards().CanEdit(ctx, userID, boardID)
	if err != nil {
		return huma.Error500InternalServerError("failed to check board access", err)
	}
	if !ok {
		return huma.Error403Forbidden("board is read-only for this user")
	}
	return nil
}

// recordAudit writes an audit entry. Failures are logged, never surfaced;
// the mutation itself already committed.
func recordAudit(ctx context.Context, store DataStore, actorID uuid.UUID, action, resource string, resourceID uuid.UUID, details map[string]any) {
	entry := &domain.AuditEntry{
		ID:         uuid.New(),
		ActorID:    actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	if err := store.Audit().Record(ctx, entry); err != nil {
		log.Warn().Err(err).
			Str("action", action).
			Str("resource", resource).
			Str("resource_id", resourceID.String()).
			Msg("api: failed to record audit entry")
	}
}
