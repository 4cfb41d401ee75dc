package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/yshebel/customerhub/internal/model"

	apperrors "github.com/yshebel/customerhub/internal/errors"
)

const pgUniqueViolationCode = "23505"

// pgDuplicateEmail converts unique index violation to domain duplicate
// error, storage-level enforcement is authoritative for email uniqueness
func pgDuplicateEmail(err error, email string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
		return apperrors.NewDuplicateErr("email", email)
	}
	return err
}

type postgresCustomerRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCustomerRepository builds postgres-backed CustomerRepository
func NewPostgresCustomerRepository(p *pgxpool.Pool) CustomerRepository {
	return &postgresCustomerRepository{pool: p}
}

func (r *postgresCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	q := `INSERT INTO customers(id, name, email, phone, company, address, notes, active, created_at, updated_at)
          VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(ctx, q, c.ID, c.Name, c.Email, c.Phone, c.Company, c.Address, c.Notes, c.Active, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return pgDuplicateEmail(err, c.Email)
	}
	return nil
}

func (r *postgresCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	q := `SELECT id, name, email, phone, company, address, notes, active, created_at, updated_at
          FROM customers WHERE id = $1`
	return r.scanRow(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresCustomerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	q := `SELECT id, name, email, phone, company, address, notes, active, created_at, updated_at
          FROM customers WHERE lower(email) = lower($1) AND active`
	return r.scanRow(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresCustomerRepository) FindAll(ctx context.Context, filter ListFilter) ([]*model.Customer, error) {
	q := `SELECT id, name, email, phone, company, address, notes, active, created_at, updated_at
          FROM customers WHERE ($1 OR active)
            AND ($2 = '' OR name ILIKE $3 OR email ILIKE $3 OR company ILIKE $3)
          ORDER BY created_at`

	pattern := fmt.Sprintf("%%%s%%", filter.Query)
	rows, err := r.pool.Query(ctx, q, filter.IncludeInactive, filter.Query, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]*model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address, &c.Notes, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *postgresCustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	q := `UPDATE customers SET name = $1, email = $2, phone = $3, company = $4, address = $5,
            notes = $6, active = $7, updated_at = $8
          WHERE id = $9`
	comm, err := r.pool.Exec(ctx, q, c.Name, c.Email, c.Phone, c.Company, c.Address, c.Notes, c.Active, c.UpdatedAt, c.ID)
	if err != nil {
		return pgDuplicateEmail(err, c.Email)
	}

	if comm.RowsAffected() == 0 {
		return apperrors.NewNotFoundErr("customer", c.ID)
	}
	return nil
}

func (r *postgresCustomerRepository) scanRow(row pgx.Row) (*model.Customer, error) {
	var c model.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address, &c.Notes, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
