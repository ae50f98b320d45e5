package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Template is a reusable board blueprint: the statuses (columns) a board
// starts with and the default property bag stamped onto new items.
type Template struct {
	ID                uuid.UUID
	OwnerID           uuid.UUID
	Name              string
	Description       string
	Statuses          []string
	DefaultProperties map[string]any
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type TemplateRepository interface {
	Create(ctx context.Context, t *Template) error
	GetByID(ctx context.Context, id uuid.UUID) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
	Update(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id uuid.UUID) error
}
