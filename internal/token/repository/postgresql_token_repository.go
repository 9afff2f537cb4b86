package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/authtokens/internal/database"
	apperrors "github.com/allisson/authtokens/internal/errors"
	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
)

// PostgreSQLTokenRepository implements Token persistence for PostgreSQL.
type PostgreSQLTokenRepository struct {
	baseTokenRepository
}

// Create inserts a new Token and sets its ID from the BIGSERIAL value.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *tokenDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	args, err := insertArgs(token)
	if err != nil {
		return err
	}

	var id int64
	query := insertQuery(database.DriverPostgres) + " RETURNING id"
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}

	token.ID = id
	if token.Status == "" {
		token.Status = tokenDomain.StatusActive
	}
	return nil
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL Token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{baseTokenRepository{db: db, driver: database.DriverPostgres}}
}
