package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/allisson/authtokens/internal/httputil"
)

func TestParseCursorPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		expectedCursor *int64
		expectedLimit  int
		expectError    bool
		errorMsg       string
	}{
		{
			name:          "default values",
			url:           "/",
			expectedLimit: 0,
			expectError:   false,
		},
		{
			name:           "cursor and limit",
			url:            "/?next=41&limit=20",
			expectedCursor: int64Ptr(41),
			expectedLimit:  20,
			expectError:    false,
		},
		{
			name:           "zero cursor",
			url:            "/?next=0",
			expectedCursor: int64Ptr(0),
			expectError:    false,
		},
		{
			name:          "max limit",
			url:           "/?limit=100",
			expectedLimit: 100,
			expectError:   false,
		},
		{
			name:        "negative cursor",
			url:         "/?next=-1",
			expectError: true,
			errorMsg:    "invalid next parameter: must be a non-negative integer",
		},
		{
			name:        "cursor not an integer",
			url:         "/?next=abc",
			expectError: true,
			errorMsg:    "invalid next parameter: must be a non-negative integer",
		},
		{
			name:        "limit zero",
			url:         "/?limit=0",
			expectError: true,
			errorMsg:    "invalid limit parameter: must be between 1 and 100",
		},
		{
			name:        "limit exceeds max",
			url:         "/?limit=101",
			expectError: true,
			errorMsg:    "invalid limit parameter: must be between 1 and 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			c.Request = req

			cursor, limit, err := httputil.ParseCursorPagination(c)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, tt.errorMsg, err.Error())
				assert.Nil(t, cursor)
				assert.Equal(t, 0, limit)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedCursor, cursor)
				assert.Equal(t, tt.expectedLimit, limit)
			}
		})
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
