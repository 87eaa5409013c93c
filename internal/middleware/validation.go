package middleware

import (
	"net/http"
	"reflect"

	"campushub-server/internal/schemas"
	"campushub-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// ValidateAndSanitizeStruct binds the request body into a fresh instance of the
// given prototype, sanitizes all string fields and validates the struct tags.
// The validated payload is stored in the context under SanitizedPayloadKey.
func ValidateAndSanitizeStruct(prototype interface{}) gin.HandlerFunc {
	structType := reflect.TypeOf(prototype).Elem()

	return func(c *gin.Context) {
		obj := reflect.New(structType).Interface()

		if err := c.ShouldBindJSON(obj); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		validator := utils.GetValidator()
		if err := validator.SanitizeData(obj); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		if err := validator.Validate.Struct(obj); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		c.Set(utils.SanitizedPayloadKey.String(), obj)
		c.Next()
	}
}
