package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/cartkeeper/internal/client/migrations"
	cartrepo "github.com/dmitrijs2005/cartkeeper/internal/client/repositories/cart"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories bundles the client-side stores backed by the local sqlite
// database.
type Repositories struct {
	Cart cartrepo.Repository
	DB   *sql.DB
}

// RunMigrations applies the embedded client migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the local sqlite database,
// migrates it, and returns the repositories bound to it.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return &Repositories{
		Cart: cartrepo.NewSQLiteRepository(db),
		DB:   db,
	}, nil
}
