package postgresql

import (
	"context"

	"github.com/cmlabs-hris/adherence-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// GetQuerier returns either the transaction bound to the context or the pool.
// Repositories go through this so callers can opt into a transaction without
// the repository knowing.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value("tx").(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}
