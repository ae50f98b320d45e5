package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ItemStatus string

const (
	ItemStatusTodo  ItemStatus = "todo"
	ItemStatusDoing ItemStatus = "doing"
	ItemStatusDone  ItemStatus = "done"
)

// Valid reports whether s is one of the known item statuses.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusTodo, ItemStatusDoing, ItemStatusDone:
		return true
	default:
		return false
	}
}

// Item is a card on a board. Properties is a free-form bag (stored as JSONB)
// for template-defined fields such as due dates, labels, or estimates.
type Item struct {
	ID          uuid.UUID
	BoardID     uuid.UUID
	Title       string
	Description string
	Status      ItemStatus
	Position    int
	Properties  map[string]any
	AssignedTo  *uuid.UUID
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ItemRepository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*Item, error)
	Update(ctx context.Context, it *Item) error
	// SetProperty writes a single key in the item's property bag.
	// A nil value removes the key.
	SetProperty(ctx context.Context, id uuid.UUID, key string, value any) error
	Delete(ctx context.Context, id uuid.UUID) error
}
