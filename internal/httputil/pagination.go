package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxLimit is the largest page size accepted from the limit query parameter.
const MaxLimit = 100

// ParseCursorPagination parses the next and limit query parameters of a keyset-paginated
// listing. A missing next starts from the newest record. A missing limit returns 0 so the
// caller applies its own default.
func ParseCursorPagination(c *gin.Context) (cursor *int64, limit int, err error) {
	if nextStr := c.Query("next"); nextStr != "" {
		next, err := strconv.ParseInt(nextStr, 10, 64)
		if err != nil || next < 0 {
			return nil, 0, fmt.Errorf("invalid next parameter: must be a non-negative integer")
		}
		cursor = &next
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > MaxLimit {
			return nil, 0, fmt.Errorf("invalid limit parameter: must be between 1 and 100")
		}
	}

	return cursor, limit, nil
}
