// Package repomanager owns the server database handle, wiring together
// repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cartkeeper/internal/server/repositories/carts"
	"github.com/dmitrijs2005/cartkeeper/internal/server/repositories/products"
	"github.com/dmitrijs2005/cartkeeper/internal/server/repositories/syncs"
)

type RepositoryManager interface {
	Conn() *sql.DB
	Carts() carts.Repository
	Products() products.Repository
	Syncs() syncs.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}
