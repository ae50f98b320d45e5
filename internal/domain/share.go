package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ShareRole string

const (
	ShareRoleViewer ShareRole = "viewer"
	ShareRoleEditor ShareRole = "editor"
)

// Valid reports whether r is a known share role.
func (r ShareRole) Valid() bool {
	return r == ShareRoleViewer || r == ShareRoleEditor
}

// Share grants a user access to a board they do not own.
type Share struct {
	ID        uuid.UUID
	BoardID   uuid.UUID
	UserID    uuid.UUID
	GrantedBy uuid.UUID
	Role      ShareRole
	CreatedAt time.Time
}

type ShareRepository interface {
	Create(ctx context.Context, s *Share) error
	Get(ctx context.Context, boardID, userID uuid.UUID) (*Share, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*Share, error)
	Delete(ctx context.Context, boardID, userID uuid.UUID) error
}
