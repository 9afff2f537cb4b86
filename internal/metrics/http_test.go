package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricsRouter(t *testing.T) (*gin.Engine, *Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("authtokens")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "authtokens"))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/-/api/tokens/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	router.POST("/-/api/tokens", func(c *gin.Context) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	})
	return router, provider
}

// assertRequestCount matches labels individually since the exporter sorts scope labels in between.
func assertRequestCount(t *testing.T, output, value string, labels ...string) {
	t.Helper()
	pattern := `authtokens_http_requests_total\{`
	for _, label := range labels {
		pattern += `[^}]*` + regexp.QuoteMeta(label)
	}
	pattern += `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func serve(router *gin.Engine, method, target string) int {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w.Code
}

func TestHTTPMetricsMiddleware_RoutePatternLabels(t *testing.T) {
	router, provider := newMetricsRouter(t)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/-/api/tokens/1"))
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/-/api/tokens/2"))
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/-/api/tokens"))

	output := scrape(t, provider)
	assertRequestCount(t, output, "2", `method="GET"`, `path="/-/api/tokens/:id"`, `status_code="200"`)
	assertRequestCount(t, output, "1", `method="POST"`, `path="/-/api/tokens"`, `status_code="403"`)
	assert.NotContains(t, output, `path="/-/api/tokens/1"`)
}

func TestHTTPMetricsMiddleware_QueryStringNotExported(t *testing.T) {
	router, provider := newMetricsRouter(t)

	serve(router, http.MethodGet, "/-/api/tokens/1?_auth_token=dstok_secret")

	output := scrape(t, provider)
	assert.NotContains(t, output, "dstok_secret")
}

func TestHTTPMetricsMiddleware_SkipsHealthRoutes(t *testing.T) {
	router, provider := newMetricsRouter(t)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health"))

	output := scrape(t, provider)
	assert.NotContains(t, output, `path="/health"`)
}

func TestHTTPMetricsMiddleware_UnmatchedRoute(t *testing.T) {
	router, provider := newMetricsRouter(t)

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/no/such/route"))

	output := scrape(t, provider)
	assertRequestCount(t, output, "1", `path="unmatched"`, `status_code="404"`)
	assert.NotContains(t, output, "/no/such/route")
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/-/api/tokens/:id", routeLabel("/-/api/tokens/:id"))
	assert.Equal(t, unmatchedRoute, routeLabel(""))
}
