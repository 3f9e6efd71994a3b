package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ash-the-k/uhi-hackathon/internal/domain"
)

// UserRepository is the authoritative identity store consulted at login and
// during claim enrichment. Enrichment injects it so tests can fake it and a
// cached implementation can stand in front of it.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, role, doctor_id, patient_id, staff_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.DoctorID,
		user.PatientID,
		user.StaffID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, COALESCE(password_hash, ''), COALESCE(password, ''),
               role, doctor_id, patient_id, staff_id, created_at, updated_at
        FROM users WHERE id=$1`

	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, COALESCE(password_hash, ''), COALESCE(password, ''),
               role, doctor_id, patient_id, staff_id, created_at, updated_at
        FROM users WHERE email=$1`

	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Password,
		&user.Role,
		&user.DoctorID,
		&user.PatientID,
		&user.StaffID,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
