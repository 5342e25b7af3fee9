// Package postgres contiene los adaptadores de persistencia sobre PostgreSQL
// (pgx/v5). Cada repositorio recibe un Querier, de modo que el mismo código
// sirve contra el pool o contra una transacción abierta por TxRunner.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier es el subconjunto común de *pgxpool.Pool y pgx.Tx que usan los
// repositorios.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
