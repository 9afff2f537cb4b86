// Package repository implements token persistence for SQLite, PostgreSQL and MySQL.
//
// Every lifecycle write is a single UPDATE guarded by token_status = 'A', so concurrent
// revocations and sweeps of the same row cannot interleave.
package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/allisson/authtokens/internal/database"
	apperrors "github.com/allisson/authtokens/internal/errors"
	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
)

const tokenColumns = "id, token_status, description, actor_id, permissions, created_timestamp, " +
	"last_used_timestamp, expires_after_seconds, ended_timestamp, secret_version"

type rowScanner interface {
	Scan(dest ...any) error
}

// scanToken reads one row selected with tokenColumns.
func scanToken(row rowScanner) (*tokenDomain.Token, error) {
	var (
		token       tokenDomain.Token
		status      string
		permissions sql.NullString
	)

	err := row.Scan(
		&token.ID,
		&status,
		&token.Description,
		&token.ActorID,
		&permissions,
		&token.CreatedTimestamp,
		&token.LastUsedTimestamp,
		&token.ExpiresAfterSeconds,
		&token.EndedTimestamp,
		&token.SecretVersion,
	)
	if err != nil {
		return nil, err
	}

	token.Status = tokenDomain.Status(strings.TrimSpace(status))
	if permissions.Valid {
		token.Permissions, err = tokenDomain.DecodeScope(permissions.String)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to decode token permissions")
		}
	}
	return &token, nil
}

// scanTokens drains rows into a slice.
func scanTokens(rows *sql.Rows) ([]*tokenDomain.Token, error) {
	tokens := make([]*tokenDomain.Token, 0)
	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan token")
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate tokens")
	}
	return tokens, nil
}

// insertArgs returns the values for the insert column list shared by all dialects.
func insertArgs(token *tokenDomain.Token) ([]any, error) {
	permissions, err := tokenDomain.EncodeScope(token.Permissions)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode token permissions")
	}
	status := token.Status
	if status == "" {
		status = tokenDomain.StatusActive
	}
	return []any{
		string(status),
		token.Description,
		token.ActorID,
		permissions,
		token.CreatedTimestamp,
		token.ExpiresAfterSeconds,
		token.SecretVersion,
	}, nil
}

// insertQuery builds the INSERT for driver.
func insertQuery(driver string) string {
	p := func(n int) string { return database.Placeholder(driver, n) }
	return fmt.Sprintf(`INSERT INTO _auth_tokens
		(token_status, description, actor_id, permissions, created_timestamp, expires_after_seconds, secret_version)
		VALUES (%s, %s, %s, %s, %s, %s, %s)`,
		p(1), p(2), p(3), p(4), p(5), p(6), p(7))
}

// revokeQuery ends an Active token as Revoked.
func revokeQuery(driver string) string {
	p := func(n int) string { return database.Placeholder(driver, n) }
	return fmt.Sprintf(
		`UPDATE _auth_tokens SET token_status = 'R', ended_timestamp = %s WHERE id = %s AND token_status = 'A'`,
		p(1), p(2),
	)
}

// sweepQuery ends logically expired Active tokens, optionally only the one with the given id.
func sweepQuery(driver string, targeted bool) string {
	p := func(n int) string { return database.Placeholder(driver, n) }
	query := fmt.Sprintf(`UPDATE _auth_tokens SET token_status = 'E', ended_timestamp = %s
		WHERE token_status = 'A'
		AND expires_after_seconds IS NOT NULL
		AND created_timestamp + expires_after_seconds <= %s`, p(1), p(2))
	if targeted {
		query += " AND id = " + p(3)
	}
	return query
}

// touchQuery sets last_used_timestamp unless it was written inside the debounce window.
func touchQuery(driver string) string {
	p := func(n int) string { return database.Placeholder(driver, n) }
	return fmt.Sprintf(`UPDATE _auth_tokens SET last_used_timestamp = %s
		WHERE id = %s AND (last_used_timestamp IS NULL OR last_used_timestamp < %s)`,
		p(1), p(2), p(3))
}

// listQuery builds the page query for filter and returns it with its arguments.
func listQuery(driver string, filter tokenDomain.ListFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.Cursor != nil {
		args = append(args, *filter.Cursor)
		where = append(where, "id <= "+database.Placeholder(driver, len(args)))
	}
	if filter.ActorID != nil {
		args = append(args, *filter.ActorID)
		where = append(where, "actor_id = "+database.Placeholder(driver, len(args)))
	}

	query := "SELECT " + tokenColumns + " FROM _auth_tokens"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, filter.Limit)
	query += " ORDER BY id DESC LIMIT " + database.Placeholder(driver, len(args))
	return query, args
}

// getQuery selects one token by id.
func getQuery(driver string) string {
	return "SELECT " + tokenColumns + " FROM _auth_tokens WHERE id = " + database.Placeholder(driver, 1)
}

// sweepArgs orders the arguments of sweepQuery.
func sweepArgs(id *int64, now int64) []any {
	if id != nil {
		return []any{now, now, *id}
	}
	return []any{now, now}
}
