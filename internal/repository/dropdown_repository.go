package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/approval-desk/internal/domain"
)

// DropdownListRepository encapsulates dropdown list persistence. Options
// are stored as a JSONB array to keep list order significant.
type DropdownListRepository interface {
	Create(ctx context.Context, list *domain.DropdownList) error
	Update(ctx context.Context, list *domain.DropdownList) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.DropdownList, error)
	List(ctx context.Context) ([]domain.DropdownList, error)
}

type dropdownListRepository struct {
	pool *pgxpool.Pool
}

// NewDropdownListRepository instantiates repository.
func NewDropdownListRepository(pool *pgxpool.Pool) DropdownListRepository {
	return &dropdownListRepository{pool: pool}
}

func (r *dropdownListRepository) Create(ctx context.Context, list *domain.DropdownList) error {
	const query = `
        INSERT INTO dropdown_lists (name, options)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, list.Name, list.Options).
		Scan(&list.ID, &list.CreatedAt, &list.UpdatedAt)
}

func (r *dropdownListRepository) Update(ctx context.Context, list *domain.DropdownList) error {
	const query = `UPDATE dropdown_lists SET name=$1, options=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, list.Name, list.Options, list.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *dropdownListRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM dropdown_lists WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *dropdownListRepository) GetByID(ctx context.Context, id string) (*domain.DropdownList, error) {
	const query = `SELECT id, name, options, created_at, updated_at FROM dropdown_lists WHERE id=$1`
	var list domain.DropdownList
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&list.ID,
		&list.Name,
		&list.Options,
		&list.CreatedAt,
		&list.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *dropdownListRepository) List(ctx context.Context) ([]domain.DropdownList, error) {
	const query = `SELECT id, name, options, created_at, updated_at FROM dropdown_lists ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DropdownList
	for rows.Next() {
		var list domain.DropdownList
		if err := rows.Scan(&list.ID, &list.Name, &list.Options, &list.CreatedAt, &list.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, list)
	}
	return result, rows.Err()
}
