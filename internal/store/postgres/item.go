package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/corkboard/internal/domain"
)

type ItemRepo struct {
	pool *pgxpool.Pool
}

func NewItemRepo(pool *pgxpool.Pool) *ItemRepo {
	return &ItemRepo{pool: pool}
}

func (r *ItemRepo) Create(ctx context.Context, it *domain.Item) error {
	props, err := json.Marshal(it.Properties)
	if err != nil {
		return fmt.Errorf("itemRepo.Create: marshal properties: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO items (id, board_id, title, description, status, position, properties, assigned_to, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		it.ID, it.BoardID, it.Title, it.Description, it.Status, it.Position,
		props, it.AssignedTo, it.CreatedBy, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("itemRepo.Create: %w", err)
	}

	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	var it domain.Item
	var props []byte

	err := r.pool.QueryRow(ctx,
		`SELECT id, board_id, title, description, status, position, properties, assigned_to, created_by, created_at, updated_at
		 FROM items WHERE id = $1`,
		id,
	).Scan(
		&it.ID, &it.BoardID, &it.Title, &it.Description, &it.Status, &it.Position,
		&props, &it.AssignedTo, &it.CreatedBy, &it.CreatedAt, &it.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("itemRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("itemRepo.GetByID: %w", err)
	}
	if err := json.Unmarshal(props, &it.Properties); err != nil {
		return nil, fmt.Errorf("itemRepo.GetByID: unmarshal properties: %w", err)
	}

	return &it, nil
}

func (r *ItemRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, board_id, title, description, status, position, properties, assigned_to, created_by, created_at, updated_at
		 FROM items WHERE board_id = $1
		 ORDER BY status, position, created_at
		 LIMIT 2000`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("itemRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	return scanItems(rows, "itemRepo.ListByBoard")
}

func (r *ItemRepo) Update(ctx context.Context, it *domain.Item) error {
	props, err := json.Marshal(it.Properties)
	if err != nil {
		return fmt.Errorf("itemRepo.Update: marshal properties: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE items SET title = $1, description = $2, status = $3, position = $4, properties = $5, assigned_to = $6, updated_at = now()
		 WHERE id = $7`,
		it.Title, it.Description, it.Status, it.Position, props, it.AssignedTo, it.ID,
	)
	if err != nil {
		return fmt.Errorf("itemRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("itemRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ItemRepo) SetProperty(ctx context.Context, id uuid.UUID, key string, value any) error {
	if value == nil {
		tag, err := r.pool.Exec(ctx,
			`UPDATE items SET properties = properties - $1, updated_at = now() WHERE id = $2`,
			key, id,
		)
		if err != nil {
			return fmt.Errorf("itemRepo.SetProperty: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("itemRepo.SetProperty: %w", domain.ErrNotFound)
		}
		return nil
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("itemRepo.SetProperty: marshal value: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE items SET properties = jsonb_set(properties, ARRAY[$1], $2::jsonb, true), updated_at = now()
		 WHERE id = $3`,
		key, encoded, id,
	)
	if err != nil {
		return fmt.Errorf("itemRepo.SetProperty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("itemRepo.SetProperty: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM items WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("itemRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("itemRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func scanItems(rows pgx.Rows, caller string) ([]*domain.Item, error) {
	var items []*domain.Item
	for rows.Next() {
		var it domain.Item
		var props []byte

		if err := rows.Scan(
			&it.ID, &it.BoardID, &it.Title, &it.Description, &it.Status, &it.Position,
			&props, &it.AssignedTo, &it.CreatedBy, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		if err := json.Unmarshal(props, &it.Properties); err != nil {
			return nil, fmt.Errorf("%s: unmarshal properties: %w", caller, err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return items, nil
}
