package carts

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cartkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestGetByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"line_key", "product_id", "quantity", "unit_price", "stock"}).
		AddRow("42-red", "42", 2, 9.99, 5).
		AddRow("7", "7", 1, 100.0, 3)

	mock.ExpectQuery(`SELECT line_key, product_id, quantity, unit_price, stock\s+FROM cart_items WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(rows)

	items, err := repo.GetByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "42-red", items[0].LineKey)
	assert.Equal(t, "u1", items[0].UserID)
	assert.Equal(t, 100.0, items[1].UnitPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPut(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO cart_items .* ON CONFLICT \(user_id, line_key\)`).
		WithArgs("u1", "42", "42", 3, 9.99, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Put(context.Background(), &models.CartItem{
		UserID: "u1", LineKey: "42", ProductID: "42", Quantity: 3, UnitPrice: 9.99, Stock: 5,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAndClear(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM cart_items WHERE user_id = \$1 AND line_key = \$2`).
		WithArgs("u1", "42").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM cart_items WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.Delete(context.Background(), "u1", "42"))
	require.NoError(t, repo.Clear(context.Background(), "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
