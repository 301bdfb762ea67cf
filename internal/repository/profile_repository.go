package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/approval-desk/internal/domain"
)

// ProfileRepository encapsulates user profile persistence.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.UserProfile) error
	Update(ctx context.Context, profile *domain.UserProfile) error
	GetByUID(ctx context.Context, uid string) (*domain.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
	// TouchLogin stamps last_login_at and refreshes name/email, the
	// "refreshed on each successful authentication" contract.
	TouchLogin(ctx context.Context, uid, name, email string) error
	ListByCompany(ctx context.Context, companyID string) ([]domain.UserProfile, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository instantiates repository.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

const profileColumns = `uid, name, email, password_hash, role, company_id, enabled, created_at, updated_at, last_login_at`

func (r *profileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	const query = `
        INSERT INTO user_profiles (uid, name, email, password_hash, role, company_id, enabled)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		profile.UID,
		profile.Name,
		profile.Email,
		profile.PasswordHash,
		profile.Role,
		profile.CompanyID,
		profile.Enabled,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	const query = `
        UPDATE user_profiles SET name=$1, email=$2, password_hash=$3, role=$4,
            company_id=$5, enabled=$6, updated_at=NOW()
        WHERE uid=$7`
	cmd, err := r.pool.Exec(ctx, query,
		profile.Name,
		profile.Email,
		profile.PasswordHash,
		profile.Role,
		profile.CompanyID,
		profile.Enabled,
		profile.UID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepository) GetByUID(ctx context.Context, uid string) (*domain.UserProfile, error) {
	return r.fetchSingle(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE uid=$1`, uid)
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	return r.fetchSingle(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE email=$1`, email)
}

func (r *profileRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&profile.UID,
		&profile.Name,
		&profile.Email,
		&profile.PasswordHash,
		&profile.Role,
		&profile.CompanyID,
		&profile.Enabled,
		&profile.CreatedAt,
		&profile.UpdatedAt,
		&profile.LastLoginAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) TouchLogin(ctx context.Context, uid, name, email string) error {
	const query = `
        UPDATE user_profiles SET name=$1, email=$2, last_login_at=NOW(), updated_at=NOW()
        WHERE uid=$3`
	cmd, err := r.pool.Exec(ctx, query, name, email, uid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepository) ListByCompany(ctx context.Context, companyID string) ([]domain.UserProfile, error) {
	const query = `SELECT ` + profileColumns + ` FROM user_profiles WHERE company_id=$1 ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.UserProfile
	for rows.Next() {
		var profile domain.UserProfile
		if err := rows.Scan(
			&profile.UID,
			&profile.Name,
			&profile.Email,
			&profile.PasswordHash,
			&profile.Role,
			&profile.CompanyID,
			&profile.Enabled,
			&profile.CreatedAt,
			&profile.UpdatedAt,
			&profile.LastLoginAt,
		); err != nil {
			return nil, err
		}
		result = append(result, profile)
	}
	return result, rows.Err()
}
