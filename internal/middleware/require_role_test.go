package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campushub-server/internal/schemas"
	"campushub-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func roleRouter(claims jwt.MapClaims, allowed ...schemas.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin",
		func(ctx *gin.Context) {
			if claims != nil {
				ctx.Set(utils.ClaimsKey.String(), claims)
			}
			ctx.Next()
		},
		RequireRole(allowed...),
		func(ctx *gin.Context) {
			ctx.Status(http.StatusOK)
		})
	return router
}

func TestRequireRole(t *testing.T) {
	testCases := []struct {
		name   string
		claims jwt.MapClaims
		status int
	}{
		{"AllowedRole", jwt.MapClaims{"role": "ADMIN"}, http.StatusOK},
		{"SuperAdminAllowed", jwt.MapClaims{"role": "SUPER_ADMIN"}, http.StatusOK},
		{"ForbiddenRole", jwt.MapClaims{"role": "USER"}, http.StatusForbidden},
		{"UnknownRole", jwt.MapClaims{"role": "ROOT"}, http.StatusForbidden},
		{"MissingClaims", nil, http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := roleRouter(tc.claims, schemas.RoleAdmin, schemas.RoleSuperAdmin)

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/admin", nil)
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tc.status, recorder.Code)
		})
	}
}
