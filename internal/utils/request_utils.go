package utils

import (
	"campushub-server/internal/schemas"

	"github.com/gin-gonic/gin"
)

// WriteAndLogResponse encodes the response object to JSON and writes it to the
// HTTP response with the provided status code.
func WriteAndLogResponse(ctx *gin.Context, response interface{}, statusCode int) {
	LogMessageWithFields(ctx, "info", "Returning response")
	ctx.JSON(statusCode, response)
}

// WriteAndLogError logs the provided error and sends an error response with the
// specified status code and the stable error taxonomy entry. The internal error
// is only logged, never written to the client.
func WriteAndLogError(ctx *gin.Context, customErr *schemas.CustomError, statusCode int, err error) {
	LogMessageWithFieldsAndError(ctx, "error", "Error occurred", err)
	LogMessageWithFields(ctx, "error", "Returning "+customErr.Code+" / "+customErr.Message)

	ctx.JSON(statusCode, &schemas.ErrorDTO{Error: *customErr})
}
