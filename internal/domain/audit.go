package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AuditEntry struct {
	ID         uuid.UUID
	ActorID    uuid.UUID
	Action     string // "create", "update", "delete", "grant", "revoke"
	Resource   string // "board", "item", "comment", "template", "share"
	ResourceID uuid.UUID
	Details    map[string]any
	CreatedAt  time.Time
}

type AuditRepository interface {
	Record(ctx context.Context, entry *AuditEntry) error
	ListRecent(ctx context.Context, limit, offset int) ([]*AuditEntry, error)
	ListByResource(ctx context.Context, resource string, resourceID uuid.UUID) ([]*AuditEntry, error)
}
