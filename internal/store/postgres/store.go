package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/corkboard/internal/domain"
)

type Store struct {
	pool      *pgxpool.Pool
	users     *UserRepo
	boards    *BoardRepo
	items     *ItemRepo
	comments  *CommentRepo
	templates *TemplateRepo
	shares    *ShareRepo
	audit     *AuditRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:      pool,
		users:     NewUserRepo(pool),
		boards:    NewBoardRepo(pool),
		items:     NewItemRepo(pool),
		comments:  NewCommentRepo(pool),
		templates: NewTemplateRepo(pool),
		shares:    NewShareRepo(pool),
		audit:     NewAuditRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Users() domain.UserRepository         { return s.users }
func (s *Store) Boards() domain.BoardRepository       { return s.boards }
func (s *Store) Items() domain.ItemRepository         { return s.items }
func (s *Store) Comments() domain.CommentRepository   { return s.comments }
func (s *Store) Templates() domain.TemplateRepository { return s.templates }
func (s *Store) Shares() domain.ShareRepository       { return s.shares }
func (s *Store) Audit() domain.AuditRepository        { return s.audit }
