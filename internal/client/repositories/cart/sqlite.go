package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cartkeeper/internal/client/models"
	"github.com/dmitrijs2005/cartkeeper/internal/dbx"
)

// TTL is how long a persisted anonymous cart stays valid after its last
// write. Refreshed on every Save.
const TTL = 7 * 24 * time.Hour

// stateKey identifies the single cart row in the key-value table.
const stateKey = "anonymous_cart"

// payload is the serialized form stored locally. ExpiresAt is embedded
// because the storage itself has no TTL support.
type payload struct {
	Lines     []models.CartLine `json:"lines"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Load returns the persisted anonymous session, or an empty one when
// nothing is stored, the payload is past expiry, or it cannot be parsed.
// A stale or corrupted row is deleted on the way out.
func (r *SQLiteRepository) Load(ctx context.Context) (*models.CartSession, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM cart_state WHERE key = ?`, stateKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewAnonymousSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		// corrupted state is discarded, never surfaced
		_ = r.Clear(ctx)
		return models.NewAnonymousSession(), nil
	}

	if !p.ExpiresAt.After(time.Now()) {
		_ = r.Clear(ctx)
		return models.NewAnonymousSession(), nil
	}

	return &models.CartSession{
		Mode:      models.ModeAnonymous,
		Lines:     p.Lines,
		ExpiresAt: p.ExpiresAt,
	}, nil
}

// Save upserts the session with a fresh expiry of now + TTL.
func (r *SQLiteRepository) Save(ctx context.Context, session *models.CartSession) error {
	p := payload{Lines: session.Lines, ExpiresAt: time.Now().Add(TTL)}

	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	query := `INSERT INTO cart_state (key, payload) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`
	if _, err := r.db.ExecContext(ctx, query, stateKey, string(raw)); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Clear removes the stored cart. Clearing an empty store is a no-op.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_state WHERE key = ?`, stateKey); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
