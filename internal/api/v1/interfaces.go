package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/corkboard/internal/domain"
	"github.com/gosuda/corkboard/internal/hub"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Users() domain.UserRepository
	Boards() domain.BoardRepository
	Items() domain.ItemRepository
	Comments() domain.CommentRepository
	Templates() domain.TemplateRepository
	Shares() domain.ShareRepository
	Audit() domain.AuditRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// EventPublisher pushes board-scoped events to connected clients after a
// mutation commits. *hub.Hub satisfies this interface.
type EventPublisher interface {
	PublishBoardEvent(ctx context.Context, t hub.EventType, boardID uuid.UUID, payload any, triggeredBy uuid.UUID)
}

// AccessInvalidator drops cached board access decisions when shares change.
// *redis.AccessCache satisfies this interface.
type AccessInvalidator interface {
	Invalidate(ctx context.Context, userID, boardID uuid.UUID)
}
