package v1_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gosuda/corkboard/internal/domain"
	"github.com/gosuda/corkboard/internal/hub"
	"github.com/gosuda/corkboard/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject user/role into context for DoCtx
// ---------------------------------------------------------------------------

func userCtx(userID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, "member")
	return ctx
}

func adminCtx(userID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, "admin")
	return ctx
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	users     domain.UserRepository
	boards    domain.BoardRepository
	items     domain.ItemRepository
	comments  domain.CommentRepository
	templates domain.TemplateRepository
	shares    domain.ShareRepository
	audit     domain.AuditRepository
}

func (m *mockDataStore) Users() domain.UserRepository         { return m.users }
func (m *mockDataStore) Boards() domain.BoardRepository       { return m.boards }
func (m *mockDataStore) Items() domain.ItemRepository         { return m.items }
func (m *mockDataStore) Comments() domain.CommentRepository   { return m.comments }
func (m *mockDataStore) Templates() domain.TemplateRepository { return m.templates }
func (m *mockDataStore) Shares() domain.ShareRepository       { return m.shares }
func (m *mockDataStore) Audit() domain.AuditRepository        { return m.audit }

// nopAudit is a no-op audit repo for tests that don't assert on auditing.
type nopAudit struct{}

func (nopAudit) Record(_ context.Context, _ *domain.AuditEntry) error { return nil }
func (nopAudit) ListRecent(_ context.Context, _, _ int) ([]*domain.AuditEntry, error) {
	return nil, nil
}
func (nopAudit) ListByResource(_ context.Context, _ string, _ uuid.UUID) ([]*domain.AuditEntry, error) {
	return nil, nil
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc     func(ctx context.Context, u *domain.User) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	updateFunc     func(ctx context.Context, u *domain.User) error
	listFunc       func(ctx context.Context) ([]*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return m.listFunc(ctx)
}

// ---------------------------------------------------------------------------
// Mock BoardRepository
// ---------------------------------------------------------------------------

type mockBoardRepo struct {
	createFunc      func(ctx context.Context, b *domain.Board) error
	getByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	listForUserFunc func(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error)
	updateFunc      func(ctx context.Context, b *domain.Board) error
	deleteFunc      func(ctx context.Context, id uuid.UUID) error
	canViewFunc     func(ctx context.Context, userID, boardID uuid.UUID) (bool, error)
	canEditFunc     func(ctx context.Context, userID, boardID uuid.UUID) (bool, error)
}

func (m *mockBoardRepo) Create(ctx context.Context, b *domain.Board) error {
	return m.createFunc(ctx, b)
}

func (m *mockBoardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockBoardRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	return m.listForUserFunc(ctx, userID)
}

func (m *mockBoardRepo) Update(ctx context.Context, b *domain.Board) error {
	return m.updateFunc(ctx, b)
}

func (m *mockBoardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockBoardRepo) CanView(ctx context.Context, userID, boardID uuid.UUID) (bool, error) {
	return m.canViewFunc(ctx, userID, boardID)
}

func (m *mockBoardRepo) CanEdit(ctx context.Context, userID, boardID uuid.UUID) (bool, error) {
	return m.canEditFunc(ctx, userID, boardID)
}

// ---------------------------------------------------------------------------
// Mock ItemRepository
// ---------------------------------------------------------------------------

type mockItemRepo struct {
	createFunc      func(ctx context.Context, it *domain.Item) error
	getByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	listByBoardFunc func(ctx context.Context, boardID uuid.UUID) ([]*domain.Item, error)
	updateFunc      func(ctx context.Context, it *domain.Item) error
	setPropertyFunc func(ctx context.Context, id uuid.UUID, key string, value any) error
	deleteFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockItemRepo) Create(ctx context.Context, it *domain.Item) error {
	return m.createFunc(ctx, it)
}

func (m *mockItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockItemRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Item, error) {
	return m.listByBoardFunc(ctx, boardID)
}

func (m *mockItemRepo) Update(ctx context.Context, it *domain.Item) error {
	return m.updateFunc(ctx, it)
}

func (m *mockItemRepo) SetProperty(ctx context.Context, id uuid.UUID, key string, value any) error {
	return m.setPropertyFunc(ctx, id, key, value)
}

func (m *mockItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock CommentRepository
// ---------------------------------------------------------------------------

type mockCommentRepo struct {
	createFunc     func(ctx context.Context, c *domain.Comment) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	listByItemFunc func(ctx context.Context, itemID uuid.UUID) ([]*domain.Comment, error)
	deleteFunc     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	return m.createFunc(ctx, c)
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockCommentRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.Comment, error) {
	return m.listByItemFunc(ctx, itemID)
}

func (m *mockCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock TemplateRepository
// ---------------------------------------------------------------------------

type mockTemplateRepo struct {
	createFunc  func(ctx context.Context, t *domain.Template) error
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Template, error)
	listFunc    func(ctx context.Context) ([]*domain.Template, error)
	updateFunc  func(ctx context.Context, t *domain.Template) error
	deleteFunc  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTemplateRepo) Create(ctx context.Context, t *domain.Template) error {
	return m.createFunc(ctx, t)
}

func (m *mockTemplateRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockTemplateRepo) List(ctx context.Context) ([]*domain.Template, error) {
	return m.listFunc(ctx)
}

func (m *mockTemplateRepo) Update(ctx context.Context, t *domain.Template) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock ShareRepository
// ---------------------------------------------------------------------------

type mockShareRepo struct {
	createFunc      func(ctx context.Context, s *domain.Share) error
	getFunc         func(ctx context.Context, boardID, userID uuid.UUID) (*domain.Share, error)
	listByBoardFunc func(ctx context.Context, boardID uuid.UUID) ([]*domain.Share, error)
	deleteFunc      func(ctx context.Context, boardID, userID uuid.UUID) error
}

func (m *mockShareRepo) Create(ctx context.Context, s *domain.Share) error {
	return m.createFunc(ctx, s)
}

func (m *mockShareRepo) Get(ctx context.Context, boardID, userID uuid.UUID) (*domain.Share, error) {
	return m.getFunc(ctx, boardID, userID)
}

func (m *mockShareRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Share, error) {
	return m.listByBoardFunc(ctx, boardID)
}

func (m *mockShareRepo) Delete(ctx context.Context, boardID, userID uuid.UUID) error {
	return m.deleteFunc(ctx, boardID, userID)
}

// ---------------------------------------------------------------------------
// Mock AuditRepository
// ---------------------------------------------------------------------------

type mockAuditRepo struct {
	recordFunc         func(ctx context.Context, entry *domain.AuditEntry) error
	listRecentFunc     func(ctx context.Context, limit, offset int) ([]*domain.AuditEntry, error)
	listByResourceFunc func(ctx context.Context, resource string, resourceID uuid.UUID) ([]*domain.AuditEntry, error)
}

func (m *mockAuditRepo) Record(ctx context.Context, entry *domain.AuditEntry) error {
	return m.recordFunc(ctx, entry)
}

func (m *mockAuditRepo) ListRecent(ctx context.Context, limit, offset int) ([]*domain.AuditEntry, error) {
	return m.listRecentFunc(ctx, limit, offset)
}

func (m *mockAuditRepo) ListByResource(ctx context.Context, resource string, resourceID uuid.UUID) ([]*domain.AuditEntry, error) {
	return m.listByResourceFunc(ctx, resource, resourceID)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc     func(ctx context.Context, email, password, name string) (*domain.User, error)
	loginFunc        func(ctx context.Context, email, password string) (string, string, error)
	refreshTokenFunc func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	return m.registerFunc(ctx, email, password, name)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshTokenFunc(ctx, refreshToken)
}

// ---------------------------------------------------------------------------
// Mock EventPublisher / AccessInvalidator
// ---------------------------------------------------------------------------

type publishedEvent struct {
	Type        hub.EventType
	BoardID     uuid.UUID
	Payload     any
	TriggeredBy uuid.UUID
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishBoardEvent(_ context.Context, t hub.EventType, boardID uuid.UUID, payload any, triggeredBy uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: t, BoardID: boardID, Payload: payload, TriggeredBy: triggeredBy})
}

func (p *recordingPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// recordingInvalidator captures cache invalidations for assertions.
type recordingInvalidator struct {
	mu    sync.Mutex
	calls [][2]uuid.UUID // userID, boardID
}

func (i *recordingInvalidator) Invalidate(_ context.Context, userID, boardID uuid.UUID) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.calls = append(i.calls, [2]uuid.UUID{userID, boardID})
}

func (i *recordingInvalidator) invalidated() [][2]uuid.UUID {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([][2]uuid.UUID, len(i.calls))
	copy(out, i.calls)
	return out
}
