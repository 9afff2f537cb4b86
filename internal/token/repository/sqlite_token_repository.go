package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/authtokens/internal/database"
	apperrors "github.com/allisson/authtokens/internal/errors"
	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
)

// SQLiteTokenRepository implements Token persistence for SQLite.
type SQLiteTokenRepository struct {
	baseTokenRepository
}

// Create inserts a new Token and sets its ID from the assigned rowid.
func (s *SQLiteTokenRepository) Create(ctx context.Context, token *tokenDomain.Token) error {
	querier := database.GetTx(ctx, s.db)

	args, err := insertArgs(token)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, insertQuery(database.DriverSQLite), args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read token id")
	}

	token.ID = id
	if token.Status == "" {
		token.Status = tokenDomain.StatusActive
	}
	return nil
}

// NewSQLiteTokenRepository creates a new SQLite Token repository.
func NewSQLiteTokenRepository(db *sql.DB) *SQLiteTokenRepository {
	return &SQLiteTokenRepository{baseTokenRepository{db: db, driver: database.DriverSQLite}}
}
