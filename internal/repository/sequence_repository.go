package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SequenceRepository hands out monotonic ticket-number sequences scoped to
// company, ticket type and year. Numbering is owned by the persistence
// layer so concurrent creators never collide.
type SequenceRepository interface {
	Next(ctx context.Context, companyCode, typeCode string, year int) (int64, error)
}

type sequenceRepository struct {
	pool *pgxpool.Pool
}

// NewSequenceRepository instantiates repository.
func NewSequenceRepository(pool *pgxpool.Pool) SequenceRepository {
	return &sequenceRepository{pool: pool}
}

func (r *sequenceRepository) Next(ctx context.Context, companyCode, typeCode string, year int) (int64, error) {
	const query = `
        INSERT INTO ticket_sequences (company_code, type_code, year, last_value)
        VALUES ($1,$2,$3,1)
        ON CONFLICT (company_code, type_code, year)
        DO UPDATE SET last_value = ticket_sequences.last_value + 1
        RETURNING last_value`
	var value int64
	if err := r.pool.QueryRow(ctx, query, companyCode, typeCode, year).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}
