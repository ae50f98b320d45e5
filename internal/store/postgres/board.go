package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/corkboard/internal/domain"
)

type BoardRepo struct {
	pool *pgxpool.Pool
}

func NewBoardRepo(pool *pgxpool.Pool) *BoardRepo {
	return &BoardRepo{pool: pool}
}

func (r *BoardRepo) Create(ctx context.Context, b *domain.Board) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO boards (id, owner_id, template_id, name, description, archived, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.OwnerID, b.TemplateID, b.Name, b.Description, b.Archived, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.Create: %w", err)
	}

	return nil
}

func (r *BoardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var b domain.Board

	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, template_id, name, description, archived, created_at, updated_at
		 FROM boards WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.OwnerID, &b.TemplateID, &b.Name, &b.Description, &b.Archived, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("boardRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("boardRepo.GetByID: %w", err)
	}

	return &b, nil
}

func (r *BoardRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT b.id, b.owner_id, b.template_id, b.name, b.description, b.archived, b.created_at, b.updated_at
		 FROM boards b
		 LEFT JOIN shares s ON s.board_id = b.id
		 WHERE b.owner_id = $1 OR s.user_id = $1
		 ORDER BY b.name
		 LIMIT 1000`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.ListForUser: %w", err)
	}
	defer rows.Close()

	return scanBoards(rows, "boardRepo.ListForUser")
}

func (r *BoardRepo) Update(ctx context.Context, b *domain.Board) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE boards SET name = $1, description = $2, archived = $3, updated_at = now()
		 WHERE id = $4`,
		b.Name, b.Description, b.Archived, b.ID,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *BoardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM boards WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *BoardRepo) CanView(ctx context.Context, userID, boardID uuid.UUID) (bool, error) {
	var allowed bool

	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM boards b
		   LEFT JOIN shares s ON s.board_id = b.id AND s.user_id = $1
		   WHERE b.id = $2 AND (b.owner_id = $1 OR s.user_id IS NOT NULL)
		 )`,
		userID, boardID,
	).Scan(&allowed)
	if err != nil {
		return false, fmt.Errorf("boardRepo.CanView: %w", err)
	}

	return allowed, nil
}

func (r *BoardRepo) CanEdit(ctx context.Context, userID, boardID uuid.UUID) (bool, error) {
	var allowed bool

	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM boards b
		   LEFT JOIN shares s ON s.board_id = b.id AND s.user_id = $1 AND s.role = 'editor'
		   WHERE b.id = $2 AND (b.owner_id = $1 OR s.user_id IS NOT NULL)
		 )`,
		userID, boardID,
	).Scan(&allowed)
	if err != nil {
		return false, fmt.Errorf("boardRepo.CanEdit: %w", err)
	}

	return allowed, nil
}

func scanBoards(rows pgx.Rows, caller string) ([]*domain.Board, error) {
	var boards []*domain.Board
	for rows.Next() {
		var b domain.Board
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.TemplateID, &b.Name, &b.Description, &b.Archived, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		boards = append(boards, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return boards, nil
}
