package middleware

import (
	"net/http"

	"campushub-server/internal/schemas"
	"campushub-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// RequireRole gates a route group behind an explicit allow-set of roles. It
// runs after the JWT middleware, so the claims are already in the context; a
// missing or malformed role claim fails closed.
func RequireRole(allowed ...schemas.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := ctx.Value(utils.ClaimsKey.String()).(jwt.MapClaims)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.Unauthorized})
			return
		}

		rawRole, _ := claims["role"].(string)
		role, err := schemas.ParseRole(rawRole)
		if err != nil || !role.In(allowed...) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, &schemas.ErrorDTO{Error: *schemas.Forbidden})
			return
		}

		ctx.Next()
	}
}
