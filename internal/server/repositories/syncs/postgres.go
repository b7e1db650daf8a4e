package syncs

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cartkeeper/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) TryRecord(ctx context.Context, userID, syncID string) (bool, error) {
	query := `INSERT INTO cart_syncs (user_id, sync_id, applied_at) VALUES ($1, $2, now())
		ON CONFLICT (user_id, sync_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, userID, syncID)
	if err != nil {
		return false, fmt.Errorf("failed to record sync: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}
