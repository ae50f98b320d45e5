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

type ShareRepo struct {
	pool *pgxpool.Pool
}

func NewShareRepo(pool *pgxpool.Pool) *ShareRepo {
	return &ShareRepo{pool: pool}
}

func (r *ShareRepo) Create(ctx context.Context, s *domain.Share) error {
	// Re-granting updates the role instead of failing on the unique
	// (board_id, user_id) constraint.
	_, err := r.pool.Exec(ctx,
		`INSERT INTO shares (id, board_id, user_id, granted_by, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (board_id, user_id) DO UPDATE SET role = EXCLUDED.role, granted_by = EXCLUDED.granted_by`,
		s.ID, s.BoardID, s.UserID, s.GrantedBy, s.Role, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("shareRepo.Create: %w", err)
	}

	return nil
}

func (r *ShareRepo) Get(ctx context.Context, boardID, userID uuid.UUID) (*domain.Share, error) {
	var s domain.Share

	err := r.pool.QueryRow(ctx,
		`SELECT id, board_id, user_id, granted_by, role, created_at
		 FROM shares WHERE board_id = $1 AND user_id = $2`,
		boardID, userID,
	).Scan(&s.ID, &s.BoardID, &s.UserID, &s.GrantedBy, &s.Role, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("shareRepo.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("shareRepo.Get: %w", err)
	}

	return &s, nil
}

func (r *ShareRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Share, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, board_id, user_id, granted_by, role, created_at
		 FROM shares WHERE board_id = $1
		 ORDER BY created_at
		 LIMIT 1000`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("shareRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	var shares []*domain.Share
	for rows.Next() {
		var s domain.Share
		if err := rows.Scan(&s.ID, &s.BoardID, &s.UserID, &s.GrantedBy, &s.Role, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("shareRepo.ListByBoard: scan: %w", err)
		}
		shares = append(shares, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("shareRepo.ListByBoard: rows: %w", err)
	}

	return shares, nil
}

func (r *ShareRepo) Delete(ctx context.Context, boardID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM shares WHERE board_id = $1 AND user_id = $2`,
		boardID, userID,
	)
	if err != nil {
		return fmt.Errorf("shareRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("shareRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
