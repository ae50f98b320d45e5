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

type TemplateRepo struct {
	pool *pgxpool.Pool
}

func NewTemplateRepo(pool *pgxpool.Pool) *TemplateRepo {
	return &TemplateRepo{pool: pool}
}

func (r *TemplateRepo) Create(ctx context.Context, t *domain.Template) error {
	props, err := json.Marshal(t.DefaultProperties)
	if err != nil {
		return fmt.Errorf("templateRepo.Create: marshal properties: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO templates (id, owner_id, name, description, statuses, default_properties, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.OwnerID, t.Name, t.Description, t.Statuses, props, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("templateRepo.Create: %w", err)
	}

	return nil
}

func (r *TemplateRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	var t domain.Template
	var props []byte

	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, description, statuses, default_properties, created_at, updated_at
		 FROM templates WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.OwnerID, &t.Name, &t.Description, &t.Statuses, &props, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("templateRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("templateRepo.GetByID: %w", err)
	}
	if err := json.Unmarshal(props, &t.DefaultProperties); err != nil {
		return nil, fmt.Errorf("templateRepo.GetByID: unmarshal properties: %w", err)
	}

	return &t, nil
}

func (r *TemplateRepo) List(ctx context.Context) ([]*domain.Template, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, owner_id, name, description, statuses, default_properties, created_at, updated_at
		 FROM templates ORDER BY name LIMIT 500`,
	)
	if err != nil {
		return nil, fmt.Errorf("templateRepo.List: %w", err)
	}
	defer rows.Close()

	var templates []*domain.Template
	for rows.Next() {
		var t domain.Template
		var props []byte

		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Name, &t.Description, &t.Statuses, &props, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("templateRepo.List: scan: %w", err)
		}
		if err := json.Unmarshal(props, &t.DefaultProperties); err != nil {
			return nil, fmt.Errorf("templateRepo.List: unmarshal properties: %w", err)
		}
		templates = append(templates, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("templateRepo.List: rows: %w", err)
	}

	return templates, nil
}

func (r *TemplateRepo) Update(ctx context.Context, t *domain.Template) error {
	props, err := json.Marshal(t.DefaultProperties)
	if err != nil {
		return fmt.Errorf("templateRepo.Update: marshal properties: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE templates SET name = $1, description = $2, statuses = $3, default_properties = $4, updated_at = now()
		 WHERE id = $5`,
		t.Name, t.Description, t.Statuses, props, t.ID,
	)
	if err != nil {
		return fmt.Errorf("templateRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("templateRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM templates WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("templateRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("templateRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
