package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/yshebel/customerhub/internal/model"
	"github.com/yshebel/customerhub/pkg/db/transactor"

	apperrors "github.com/yshebel/customerhub/internal/errors"
)

type postgresUserRepository struct {
	trx transactor.PgxTransactor
}

// NewPostgresUserRepository builds postgres-backed UserRepository,
// queries join any transaction already carried by context
func NewPostgresUserRepository(trx transactor.PgxTransactor) UserRepository {
	return &postgresUserRepository{trx: trx}
}

func (r *postgresUserRepository) Create(ctx context.Context, u *model.User) error {
	q := `INSERT INTO users(id, email, password_hash, username, role, active, created_at, updated_at)
          VALUES($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.trx.Executor(ctx).Exec(ctx, q, u.ID, u.Email, u.PasswordHash, u.Username, u.Role, u.Active, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return pgDuplicateEmail(err, u.Email)
	}
	return nil
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	q := `SELECT id, email, password_hash, username, role, active, created_at, updated_at
          FROM users WHERE id = $1`
	return r.scanRow(r.trx.Executor(ctx).QueryRow(ctx, q, id))
}

func (r *postgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	q := `SELECT id, email, password_hash, username, role, active, created_at, updated_at
          FROM users WHERE lower(email) = lower($1) AND active`
	return r.scanRow(r.trx.Executor(ctx).QueryRow(ctx, q, email))
}

func (r *postgresUserRepository) FindAll(ctx context.Context, filter ListFilter) ([]*model.User, error) {
	q := `SELECT id, email, password_hash, username, role, active, created_at, updated_at
          FROM users WHERE ($1 OR active)
            AND ($2 = '' OR email ILIKE $3 OR username ILIKE $3)
          ORDER BY created_at`

	pattern := fmt.Sprintf("%%%s%%", filter.Query)
	rows, err := r.trx.Executor(ctx).Query(ctx, q, filter.IncludeInactive, filter.Query, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Username, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *postgresUserRepository) Update(ctx context.Context, u *model.User) error {
	q := `UPDATE users SET email = $1, password_hash = $2, username = $3, role = $4, active = $5, updated_at = $6
          WHERE id = $7`
	comm, err := r.trx.Executor(ctx).Exec(ctx, q, u.Email, u.PasswordHash, u.Username, u.Role, u.Active, u.UpdatedAt, u.ID)
	if err != nil {
		return pgDuplicateEmail(err, u.Email)
	}

	if comm.RowsAffected() == 0 {
		return apperrors.NewNotFoundErr("user", u.ID)
	}
	return nil
}

func (r *postgresUserRepository) scanRow(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Username, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
