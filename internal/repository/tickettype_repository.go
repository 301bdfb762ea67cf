package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/approval-desk/internal/domain"
)

// TicketTypeRepository encapsulates ticket type persistence. Fields,
// workflow and comment requirements are stored as JSONB documents.
type TicketTypeRepository interface {
	Create(ctx context.Context, typ *domain.TicketType) error
	Update(ctx context.Context, typ *domain.TicketType) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.TicketType, error)
	GetByCode(ctx context.Context, code string) (*domain.TicketType, error)
	List(ctx context.Context, onlyActive bool) ([]domain.TicketType, error)
}

type ticketTypeRepository struct {
	pool *pgxpool.Pool
}

// NewTicketTypeRepository instantiates repository.
func NewTicketTypeRepository(pool *pgxpool.Pool) TicketTypeRepository {
	return &ticketTypeRepository{pool: pool}
}

func (r *ticketTypeRepository) Create(ctx context.Context, typ *domain.TicketType) error {
	const query = `
        INSERT INTO ticket_types (name, code, description, is_active, require_attachment, comment_requirements, fields, workflow)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		typ.Name,
		typ.Code,
		typ.Description,
		typ.IsActive,
		typ.RequireAttachmentOnCreate,
		typ.CommentRequirements,
		typ.Fields,
		typ.Workflow,
	).Scan(&typ.ID, &typ.CreatedAt, &typ.UpdatedAt)
}

func (r *ticketTypeRepository) Update(ctx context.Context, typ *domain.TicketType) error {
	const query = `
        UPDATE ticket_types SET name=$1, code=$2, description=$3, is_active=$4,
            require_attachment=$5, comment_requirements=$6, fields=$7, workflow=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		typ.Name,
		typ.Code,
		typ.Description,
		typ.IsActive,
		typ.RequireAttachmentOnCreate,
		typ.CommentRequirements,
		typ.Fields,
		typ.Workflow,
		typ.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketTypeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM ticket_types WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const ticketTypeColumns = `id, name, code, description, is_active, require_attachment, comment_requirements, fields, workflow, created_at, updated_at`

func (r *ticketTypeRepository) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketTypeColumns+` FROM ticket_types WHERE id=$1`, id)
}

func (r *ticketTypeRepository) GetByCode(ctx context.Context, code string) (*domain.TicketType, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketTypeColumns+` FROM ticket_types WHERE code=$1`, code)
}

func (r *ticketTypeRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.TicketType, error) {
	var typ domain.TicketType
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&typ.ID,
		&typ.Name,
		&typ.Code,
		&typ.Description,
		&typ.IsActive,
		&typ.RequireAttachmentOnCreate,
		&typ.CommentRequirements,
		&typ.Fields,
		&typ.Workflow,
		&typ.CreatedAt,
		&typ.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &typ, nil
}

func (r *ticketTypeRepository) List(ctx context.Context, onlyActive bool) ([]domain.TicketType, error) {
	query := `SELECT ` + ticketTypeColumns + ` FROM ticket_types`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketType
	for rows.Next() {
		var typ domain.TicketType
		if err := rows.Scan(
			&typ.ID,
			&typ.Name,
			&typ.Code,
			&typ.Description,
			&typ.IsActive,
			&typ.RequireAttachmentOnCreate,
			&typ.CommentRequirements,
			&typ.Fields,
			&typ.Workflow,
			&typ.CreatedAt,
			&typ.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, typ)
	}
	return result, rows.Err()
}
