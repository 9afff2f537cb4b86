package commands

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/authtokens/internal/database"
)

func TestRunMigrations(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("sqlite", func(t *testing.T) {
		cfg := database.Config{
			Driver:             database.DriverSQLite,
			ConnectionString:   "file:" + filepath.Join(t.TempDir(), "tokens.db"),
			MaxOpenConnections: 1,
		}

		require.NoError(t, RunMigrations(logger, cfg))
		// Running again is a no-op.
		require.NoError(t, RunMigrations(logger, cfg))
	})

	t.Run("invalid-driver", func(t *testing.T) {
		err := RunMigrations(logger, database.Config{Driver: "invalid", ConnectionString: "x"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "unsupported database driver")
	})

	t.Run("invalid-connection-string", func(t *testing.T) {
		err := RunMigrations(logger, database.Config{Driver: database.DriverPostgres, ConnectionString: "invalid-connection-string"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to run migrations")
	})
}
