package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier represents the minimal read operations used by the Postgres
// telemetry source. Both *pgxpool.Pool and pgxmock pools satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
