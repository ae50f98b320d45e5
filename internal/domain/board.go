package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Board struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	TemplateID  *uuid.UUID // nullable, template the board was created from
	Name        string
	Description string
	Archived    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type BoardRepository interface {
	Create(ctx context.Context, b *Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*Board, error)
	// ListForUser returns boards the user owns plus boards shared with them.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Board, error)
	Update(ctx context.Context, b *Board) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CanView reports whether the user owns the board or holds any share on it.
	CanView(ctx context.Context, userID, boardID uuid.UUID) (bool, error)
	// CanEdit reports whether the user owns the board or holds an editor share.
	CanEdit(ctx context.Context, userID, boardID uuid.UUID) (bool, error)
}
