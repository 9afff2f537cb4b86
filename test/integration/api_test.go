// Package integration provides end-to-end tests for the token API built from the DI container.
// SQLite always runs; PostgreSQL and MySQL run when TEST_POSTGRES_DSN or TEST_MYSQL_DSN is set.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/authtokens/internal/app"
	"github.com/allisson/authtokens/internal/config"
	"github.com/allisson/authtokens/internal/database"
	"github.com/allisson/authtokens/internal/testutil"
	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
)

const integrationAuth = `
manage_tokens: true
privileges:
  view-all-tokens: [root]
  revoke-all-tokens: [root]
actors:
  - id: root
    name: Root User
`

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	rootToken string
	rootID    int64
	dbDriver  string
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body any,
	bearer string,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// actor returns the actor the API resolves for bearer, or nil.
func (ctx *integrationTestContext) actor(t *testing.T, bearer string) map[string]any {
	t.Helper()

	resp, body := ctx.makeRequest(t, http.MethodGet, "/-/actor", nil, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var response struct {
		Actor map[string]any `json:"actor"`
	}
	require.NoError(t, json.Unmarshal(body, &response))
	return response.Actor
}

// issue mints a managed token the way the create-token command does.
func (ctx *integrationTestContext) issue(
	t *testing.T,
	actorID string,
	input *tokenDomain.IssueTokenInput,
) *tokenDomain.IssueTokenOutput {
	t.Helper()

	tokenUseCase, err := ctx.container.TokenUseCase()
	require.NoError(t, err, "failed to get token use case")

	output, err := tokenUseCase.IssueForActor(context.Background(), actorID, input)
	require.NoError(t, err, "failed to issue token")
	return output
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var db *sql.DB
	var dsn string
	switch dbDriver {
	case database.DriverPostgres:
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	case database.DriverMySQL:
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	default:
		storeConfig := testutil.SQLiteConfig(t)
		_, err := database.Migrate(storeConfig, slog.New(slog.NewTextHandler(io.Discard, nil)))
		require.NoError(t, err, "failed to migrate sqlite store")
		dsn = storeConfig.ConnectionString
	}

	authFile := filepath.Join(t.TempDir(), "auth.yaml")
	require.NoError(t, os.WriteFile(authFile, []byte(integrationAuth), 0o600))

	cfg := &config.Config{
		DBDriver:             dbDriver,
		DBConnectionString:   dsn,
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Hour,
		ServerHost:           "localhost",
		ServerPort:           8080,
		LogLevel:             "error",
		AuthConfigFile:       authFile,
		SigningSecret:        base64.StdEncoding.EncodeToString([]byte("integration-test-signing-secret!")),
	}

	container := app.NewContainer(cfg)

	ctx := &integrationTestContext{
		container: container,
		db:        db,
		dbDriver:  dbDriver,
	}

	root := ctx.issue(t, "root", &tokenDomain.IssueTokenInput{Description: "integration root"})
	ctx.rootToken = root.PlainToken
	ctx.rootID = root.Token.ID

	httpSrv, err := container.HTTPServer(context.Background())
	require.NoError(t, err, "failed to get HTTP server")

	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil after SetupRouter")
	ctx.server = httptest.NewServer(handler)

	t.Logf("Integration test setup complete for %s (root token id=%d)", dbDriver, ctx.rootID)
	return ctx
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}

	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}

	t.Logf("Integration test teardown complete for %s", ctx.dbDriver)
}

var integrationDrivers = []struct {
	name     string
	dbDriver string
}{
	{"SQLite", database.DriverSQLite},
	{"PostgreSQL", database.DriverPostgres},
	{"MySQL", database.DriverMySQL},
}

// TestIntegration_Health_BasicChecks validates health and readiness endpoints.
func TestIntegration_Health_BasicChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range integrationDrivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			t.Run("01_HealthCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "healthy", response["status"])
			})

			t.Run("02_ReadinessCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/ready", nil, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "ready", response["status"])
			})
		})
	}
}

// TestIntegration_Tokens_CompleteFlow walks a managed token from issuance to revocation.
func TestIntegration_Tokens_CompleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range integrationDrivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			alice := ctx.issue(t, "alice", &tokenDomain.IssueTokenInput{
				Description:    "scoped",
				ExpireType:     string(tokenDomain.ExpireHours),
				ExpireDuration: "1",
				Tags: []tokenDomain.ScopeTag{
					{Kind: tokenDomain.ScopeDatabase, Database: "fixtures", Action: "view-query"},
				},
			})
			alicePath := "/-/api/tokens/" + strconv.FormatInt(alice.Token.ID, 10)

			t.Run("01_ActorFromManagedToken", func(t *testing.T) {
				actor := ctx.actor(t, ctx.rootToken)
				assert.Equal(t, "root", actor["id"])
				assert.Equal(t, "dsatok", actor["token"])
				assert.Equal(t, float64(ctx.rootID), actor["token_id"])

				actor = ctx.actor(t, alice.PlainToken)
				assert.Equal(t, "alice", actor["id"])
				assert.Equal(t, map[string]any{
					"d": map[string]any{"fixtures": []any{"vq"}},
				}, actor["_r"])
			})

			t.Run("02_AnonymousWithoutToken", func(t *testing.T) {
				assert.Nil(t, ctx.actor(t, ""))
				assert.Nil(t, ctx.actor(t, alice.PlainToken+"x"))
			})

			t.Run("03_TokenCannotCreateTokens", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, "/-/api/tokens/create", map[string]any{}, ctx.rootToken)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			})

			t.Run("04_ListAllTokens", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/-/api/tokens", nil, ctx.rootToken)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var page struct {
					Data []struct {
						ID    int64          `json:"id"`
						Actor map[string]any `json:"actor"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(body, &page))
				require.Len(t, page.Data, 2)
				assert.Equal(t, alice.Token.ID, page.Data[0].ID)
				assert.Equal(t, ctx.rootID, page.Data[1].ID)
				assert.Equal(t, "Root User", page.Data[1].Actor["name"])
			})

			t.Run("05_ListOwnTokensOnly", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/-/api/tokens", nil, alice.PlainToken)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var page struct {
					Data []struct {
						ActorID string `json:"actor_id"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(body, &page))
				require.Len(t, page.Data, 1)
				assert.Equal(t, "alice", page.Data[0].ActorID)
			})

			t.Run("06_GetToken", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, alicePath, nil, ctx.rootToken)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var token map[string]any
				require.NoError(t, json.Unmarshal(body, &token))
				assert.Equal(t, "A", token["status"])
				assert.Equal(t, "scoped", token["description"])
				assert.NotNil(t, token["last_used_timestamp"])
			})

			t.Run("07_ForeignTokenHidden", func(t *testing.T) {
				path := "/-/api/tokens/" + strconv.FormatInt(ctx.rootID, 10)
				resp, _ := ctx.makeRequest(t, http.MethodGet, path, nil, alice.PlainToken)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)

				resp, _ = ctx.makeRequest(t, http.MethodGet, "/-/api/tokens/999999", nil, ctx.rootToken)
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			})

			t.Run("08_RevokeToken", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, alicePath, map[string]any{"revoke": true}, ctx.rootToken)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var token map[string]any
				require.NoError(t, json.Unmarshal(body, &token))
				assert.Equal(t, "R", token["status"])
				assert.NotNil(t, token["ended_timestamp"])

				assert.Nil(t, ctx.actor(t, alice.PlainToken))
			})

			t.Run("09_SweepLeavesRevokedTokens", func(t *testing.T) {
				tokenUseCase, err := ctx.container.TokenUseCase()
				require.NoError(t, err)

				count, err := tokenUseCase.SweepExpired(context.Background())
				require.NoError(t, err)
				assert.Equal(t, int64(0), count)
			})
		})
	}
}
