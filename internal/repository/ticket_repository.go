package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/approval-desk/internal/domain"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	CompanyID    *string
	RequesterID  *string
	TicketTypeID *string
	Statuses     []string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	// Update persists the ticket only when the stored version matches the
	// in-memory one, bumping it on success. A mismatch reports ConflictError.
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	ListOpen(ctx context.Context) ([]domain.Ticket, error)
	// CountByFieldUsage reports how many tickets of the type carry a value
	// for the given field name.
	CountByFieldUsage(ctx context.Context, ticketTypeID, fieldName string) (int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_number, ticket_type_id, company_id, requester_id,
               title, description, status, field_values, current_step_index,
               step_votes, version, step_entered_at, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, ticket_type_id, company_id, requester_id, title, description,
            status, field_values, current_step_index, step_votes, step_entered_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.TicketTypeID,
		ticket.CompanyID,
		ticket.RequesterID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.FieldValues,
		ticket.CurrentStepIndex,
		ticket.StepVotes,
		ticket.StepEnteredAt,
	).Scan(&ticket.ID, &ticket.Version, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, field_values=$4,
            current_step_index=$5, step_votes=$6, step_entered_at=$7,
            version=version+1, updated_at=NOW()
        WHERE id=$8 AND version=$9`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.FieldValues,
		ticket.CurrentStepIndex,
		ticket.StepVotes,
		ticket.StepEnteredAt,
		ticket.ID,
		ticket.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// Either the ticket vanished or another writer got there first.
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tickets WHERE id=$1)`, ticket.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return pgx.ErrNoRows
		}
		return apperrors.NewConflict("ticket was modified concurrently", map[string]any{
			"ticket_id": ticket.ID,
			"version":   ticket.Version,
		})
	}
	ticket.Version++
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE ticket_number=$1`, number)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.TicketTypeID,
		&ticket.CompanyID,
		&ticket.RequesterID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.FieldValues,
		&ticket.CurrentStepIndex,
		&ticket.StepVotes,
		&ticket.Version,
		&ticket.StepEnteredAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		clauses = append(clauses, fmt.Sprintf("company_id=$%d", len(args)))
	}
	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("requester_id=$%d", len(args)))
	}
	if filter.TicketTypeID != nil {
		args = append(args, *filter.TicketTypeID)
		clauses = append(clauses, fmt.Sprintf("ticket_type_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListOpen(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
        WHERE status NOT IN ($1,$2,$3,$4) ORDER BY step_entered_at ASC`
	rows, err := r.pool.Query(ctx, query,
		domain.StatusApproved, domain.StatusRejected, domain.StatusCancelled, domain.StatusDraft)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountByFieldUsage(ctx context.Context, ticketTypeID, fieldName string) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE ticket_type_id=$1 AND field_values ? $2`
	var count int64
	if err := r.pool.QueryRow(ctx, query, ticketTypeID, fieldName).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.TicketNumber,
			&ticket.TicketTypeID,
			&ticket.CompanyID,
			&ticket.RequesterID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&ticket.FieldValues,
			&ticket.CurrentStepIndex,
			&ticket.StepVotes,
			&ticket.Version,
			&ticket.StepEnteredAt,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
