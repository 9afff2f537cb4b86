package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
	"github.com/allisson/authtokens/internal/database"
	apperrors "github.com/allisson/authtokens/internal/errors"
)

// QueryAuthenticator checks "<reference>-<secret>" credentials with a configured SQL query.
type QueryAuthenticator struct {
	source authDomain.QuerySource
	stores *database.Registry
}

// NewQueryAuthenticator creates a QueryAuthenticator running source against stores.
func NewQueryAuthenticator(source authDomain.QuerySource, stores *database.Registry) *QueryAuthenticator {
	return &QueryAuthenticator{source: source, stores: stores}
}

// Authenticate requires exactly one separator in value, looks the reference up and compares
// the secret in constant time. The actor is built from actor_* columns with the prefix removed.
func (q *QueryAuthenticator) Authenticate(ctx context.Context, value string) (authDomain.Actor, error) {
	if strings.Count(value, authDomain.QuerySeparator) != 1 {
		return nil, nil
	}
	reference, secret, _ := strings.Cut(value, authDomain.QuerySeparator)

	store, err := q.stores.Get(q.source.Store)
	if err != nil {
		if apperrors.Is(err, database.ErrStoreNotFound) {
			return nil, apperrors.Wrap(authDomain.ErrQueryStoreMissing, q.source.Store)
		}
		return nil, err
	}

	query, args, err := database.BindNamed(store.Driver, q.source.SQL, map[string]any{
		authDomain.QueryParamName: reference,
	})
	if err != nil {
		return nil, err
	}

	row, err := firstRow(ctx, store, query, args)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}

	stored, ok := row[authDomain.QuerySecretColumn]
	if !ok {
		return nil, authDomain.ErrMissingSecretColumn
	}
	if stored == nil || !secretsEqual([]byte(columnString(stored)), []byte(secret)) {
		return nil, nil
	}

	actor := authDomain.Actor{}
	for column, v := range row {
		if name, isActor := strings.CutPrefix(column, authDomain.QueryActorPrefix); isActor {
			actor[name] = columnValue(v)
		}
	}
	return actor, nil
}

// firstRow runs query and returns the first row keyed by column name, or nil for no rows.
func firstRow(ctx context.Context, store *database.Store, query string, args []any) (map[string]any, error) {
	rows, err := database.GetTx(ctx, store.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to run token query")
	}
	defer func() {
		_ = rows.Close()
	}()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Wrap(err, "failed to read token query")
		}
		return nil, nil
	}

	columns, err := rows.Columns()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read token query columns")
	}

	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	if err := rows.Scan(pointers...); err != nil {
		return nil, apperrors.Wrap(err, "failed to scan token query row")
	}

	row := make(map[string]any, len(columns))
	for i, column := range columns {
		row[column] = values[i]
	}
	return row, nil
}

// columnString renders a scanned value for secret comparison.
func columnString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case []byte:
		return string(value)
	default:
		return fmt.Sprint(value)
	}
}

// columnValue converts driver byte slices to strings so actors serialize as text.
func columnValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
