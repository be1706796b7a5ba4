package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// maxBindParams is the Postgres limit on placeholders in a single statement.
const maxBindParams = 65535

// namedInsertChunks runs a multi-row named insert in as many statements as
// needed to keep each one under maxBindParams.
func namedInsertChunks[T any](ctx context.Context, exec sqlx.ExtContext, query string, rows []T, columns int) error {
	size := maxBindParams / columns
	for lo := 0; lo < len(rows); lo += size {
		hi := min(lo+size, len(rows))
		if _, err := sqlx.NamedExecContext(ctx, exec, query, rows[lo:hi]); err != nil {
			return err
		}
	}
	return nil
}
