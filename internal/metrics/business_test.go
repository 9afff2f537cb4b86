package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine checks that the Prometheus output contains a business metric
// matching the given name, partial label pattern, and value. Uses regex to handle
// extra OTel scope labels injected by the Prometheus exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("authtokens")
	require.NoError(t, err)

	businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "authtokens")

	require.NoError(t, err)
	assert.NotNil(t, businessMetrics)
}

func TestBusinessMetrics_Operations(t *testing.T) {
	provider, err := NewProvider("authtokens")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "authtokens")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "tokens", "token_issue", StatusSuccess)
	bm.RecordOperation(ctx, "tokens", "token_issue", StatusSuccess)
	bm.RecordOperation(ctx, "tokens", "token_issue", StatusError)
	bm.RecordOperation(ctx, "auth", "resolve_managed", StatusRejected)
	bm.RecordDuration(ctx, "tokens", "token_issue", 5*time.Millisecond, StatusSuccess)
	bm.RecordDuration(ctx, "tokens", "token_issue", 7*time.Millisecond, StatusSuccess)

	output := scrape(t, provider)

	assertBizMetricLine(t, output, `authtokens_operations_total`,
		`domain="tokens".*operation="token_issue".*status="success"`, `2`)
	assertBizMetricLine(t, output, `authtokens_operations_total`,
		`domain="tokens".*operation="token_issue".*status="error"`, `1`)
	assertBizMetricLine(t, output, `authtokens_operations_total`,
		`domain="auth".*operation="resolve_managed".*status="rejected"`, `1`)
	assertBizMetricLine(t, output, `authtokens_operation_duration_seconds_count`,
		`domain="tokens".*operation="token_issue".*status="success"`, `2`)
}

func TestBusinessMetrics_RecordExpired(t *testing.T) {
	provider, err := NewProvider("authtokens")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "authtokens")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordExpired(ctx, 3)
	bm.RecordExpired(ctx, 0)
	bm.RecordExpired(ctx, 2)

	assert.Regexp(t, `authtokens_tokens_expired_total(\{[^}]*\})? 5`, scrape(t, provider))
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOp := NewNoOpBusinessMetrics()
	require.NotNil(t, noOp)

	assert.NotPanics(t, func() {
		ctx := context.Background()
		noOp.RecordOperation(ctx, "tokens", "token_issue", StatusSuccess)
		noOp.RecordDuration(ctx, "auth", "resolve_configured", time.Millisecond, StatusError)
		noOp.RecordExpired(ctx, 10)
	})
}
