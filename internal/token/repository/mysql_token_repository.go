package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/authtokens/internal/database"
	apperrors "github.com/allisson/authtokens/internal/errors"
	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
)

// MySQLTokenRepository implements Token persistence for MySQL.
type MySQLTokenRepository struct {
	baseTokenRepository
}

// Create inserts a new Token and sets its ID from the AUTO_INCREMENT value.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *tokenDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	args, err := insertArgs(token)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, insertQuery(database.DriverMySQL), args...)
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

// NewMySQLTokenRepository creates a new MySQL Token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{baseTokenRepository{db: db, driver: database.DriverMySQL}}
}
