package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paginationContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("GET", "/api/events"+query, nil)
	return ctx
}

func TestParsePaginationParams(t *testing.T) {
	testCases := []struct {
		name   string
		query  string
		offset int
		limit  int
		valid  bool
	}{
		{"Defaults", "", 0, 10, true},
		{"Explicit", "?offset=20&limit=50", 20, 50, true},
		{"MaxLimit", "?limit=100", 0, 100, true},
		{"LimitTooLarge", "?limit=101", 0, 0, false},
		{"NegativeOffset", "?offset=-1", 0, 0, false},
		{"ZeroLimit", "?limit=0", 0, 0, false},
		{"NotANumber", "?offset=abc", 0, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			offset, limit, err := ParsePaginationParams(paginationContext(tc.query))
			if !tc.valid {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.offset, offset)
			assert.Equal(t, tc.limit, limit)
		})
	}
}
