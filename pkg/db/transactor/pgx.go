package transactor

import (
	"context"

	"github.com/jackc/pgtype/pgxtype"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type pgxTxKey struct{}

func withPgxTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, pgxTxKey{}, tx)
}

func pgxTxValue(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(pgxTxKey{}).(pgx.Tx); ok {
		return tx
	}
	return nil
}

// PgxQueryExecutor is the query surface repositories run against,
// satisfied by both pgxpool.Pool and pgx.Tx
type PgxQueryExecutor interface {
	pgxtype.Querier
	Begin(context.Context) (pgx.Tx, error)
	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults
	CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error)
}

// PgxTransactor runs functions within a database transaction carried
// through context, and hands out the right executor for the current scope
type PgxTransactor interface {
	Transactor
	Executor(ctx context.Context) PgxQueryExecutor
}

type pgxTransactor struct {
	pool *pgxpool.Pool
}

// NewPgxTransactor builds PgxTransactor on top of connection pool
func NewPgxTransactor(p *pgxpool.Pool) PgxTransactor {
	return &pgxTransactor{pool: p}
}

func (t *pgxTransactor) WithinTransaction(ctx context.Context, txFunc func(context.Context) error) (err error) {
	conn, err := t.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		var txErr error
		if err != nil {
			txErr = tx.Rollback(ctx)
		} else {
			txErr = tx.Commit(ctx)
		}

		if txErr != nil {
			err = txErr
		}
	}()

	err = txFunc(withPgxTx(ctx, tx))
	return err
}

func (t *pgxTransactor) Executor(ctx context.Context) PgxQueryExecutor {
	if tx := pgxTxValue(ctx); tx != nil {
		return tx
	}
	return t.pool
}
