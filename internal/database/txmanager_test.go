package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Connect(sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	_, err = db.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)")
	require.NoError(t, err)
	return db
}

func countItems(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM items").Scan(&n))
	return n
}

func TestWithTx_Success(t *testing.T) {
	db := setupSQLite(t)
	txManager := NewTxManager(db)

	err := txManager.WithTx(context.Background(), func(ctx context.Context) error {
		tx := ctx.Value(txKey{})
		assert.IsType(t, &sql.Tx{}, tx)

		_, err := GetTx(ctx, db).ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", "a")
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 1, countItems(t, db))
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := setupSQLite(t)
	txManager := NewTxManager(db)

	testError := assert.AnError
	err := txManager.WithTx(context.Background(), func(ctx context.Context) error {
		_, err := GetTx(ctx, db).ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", "a")
		require.NoError(t, err)
		return testError
	})

	assert.ErrorIs(t, err, testError)
	assert.Equal(t, 0, countItems(t, db))
}

func TestWithTx_NestedSharesTransaction(t *testing.T) {
	db := setupSQLite(t)
	txManager := NewTxManager(db)

	err := txManager.WithTx(context.Background(), func(outer context.Context) error {
		_, err := GetTx(outer, db).ExecContext(outer, "INSERT INTO items (name) VALUES (?)", "a")
		require.NoError(t, err)

		return txManager.WithTx(outer, func(inner context.Context) error {
			assert.Same(t, GetTx(outer, db), GetTx(inner, db))
			_, err := GetTx(inner, db).ExecContext(inner, "INSERT INTO items (name) VALUES (?)", "b")
			require.NoError(t, err)
			return assert.AnError
		})
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, countItems(t, db))
}

func TestWithTx_BeginFailsOnClosedDB(t *testing.T) {
	db := setupSQLite(t)
	require.NoError(t, db.Close())

	called := false
	err := NewTxManager(db).WithTx(context.Background(), func(context.Context) error {
		called = true
		return nil
	})

	assert.ErrorContains(t, err, "begin transaction")
	assert.False(t, called)
}

func TestGetTx_WithoutTransaction(t *testing.T) {
	db := setupSQLite(t)

	querier := GetTx(context.Background(), db)
	assert.Equal(t, db, querier)
}
