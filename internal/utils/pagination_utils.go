package utils

import (
	"fmt"
	"strconv"

	"campushub-server/internal/schemas"

	"github.com/gin-gonic/gin"
)

const (
	defaultOffset = 0
	defaultLimit  = 10
	maxLimit      = 100
)

// ParsePaginationParams parses the offset and limit query parameters, falling
// back to defaults when absent and rejecting negative or oversized values.
func ParsePaginationParams(ctx *gin.Context) (int, int, error) {
	offset := defaultOffset
	limit := defaultLimit

	if raw := ctx.Query(OffsetParamKey); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return 0, 0, fmt.Errorf("invalid offset %q", raw)
		}
		offset = parsed
	}

	if raw := ctx.Query(LimitParamKey); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxLimit {
			return 0, 0, fmt.Errorf("invalid limit %q", raw)
		}
		limit = parsed
	}

	return offset, limit, nil
}

// SendPaginatedResponse wraps the records with the pagination envelope and
// writes the response.
func SendPaginatedResponse(ctx *gin.Context, records interface{}, offset, limit, totalRecords int) {
	response := &schemas.PaginatedResponse{
		Records: records,
		Pagination: schemas.Pagination{
			Offset:  offset,
			Limit:   limit,
			Records: totalRecords,
		},
	}

	WriteAndLogResponse(ctx, response, 200)
}
