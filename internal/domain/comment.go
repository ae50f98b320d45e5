package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID
	ItemID    uuid.UUID
	BoardID   uuid.UUID
	AuthorID  uuid.UUID
	Body      string
	CreatedAt time.Time
}

type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
