package database

import (
	"context"
	"strings"
)

// migrationsTable is the bookkeeping table golang-migrate creates.
const migrationsTable = "schema_migrations"

// tablesQuery returns the statement listing user tables for driver.
func tablesQuery(driver string) string {
	switch driver {
	case DriverPostgres:
		return `SELECT table_name FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_type = 'BASE TABLE' ORDER BY table_name`
	case DriverMySQL:
		return `SELECT table_name FROM information_schema.tables
			WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE' ORDER BY table_name`
	default:
		return `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`
	}
}

// hiddenTable reports whether a table is internal bookkeeping rather than user data.
func hiddenTable(name string) bool {
	return strings.HasPrefix(name, "_") ||
		strings.HasPrefix(name, "sqlite_") ||
		name == migrationsTable
}

// ListTables returns the visible tables of store in name order.
func ListTables(ctx context.Context, store *Store) ([]string, error) {
	rows, err := GetTx(ctx, store.DB).QueryContext(ctx, tablesQuery(store.Driver))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if !hiddenTable(name) {
			tables = append(tables, name)
		}
	}
	return tables, rows.Err()
}
