package mocks

import (
	"net/http"

	"campushub-server/internal/schemas"
	"campushub-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
)

// MockJwtManager is a mock of the JWTManager. Tests preconfigure the token it
// accepts and the claims it injects into the request context.
type MockJwtManager struct {
	mock.Mock

	Err      error
	JwtToken string
	Claims   jwt.MapClaims
}

func (m *MockJwtManager) GenerateJWT(userId, email string, role schemas.Role, refresh bool) (string, error) {
	args := m.Called(userId, email, role, refresh)
	return args.String(0), args.Error(1)
}

func (m *MockJwtManager) ValidateJWT(tokenString string) (jwt.Claims, error) {
	args := m.Called(tokenString)
	return args.Get(0).(jwt.Claims), args.Error(1)
}

// JWTMiddleware simulates the authentication middleware: the preconfigured
// token passes, everything else is rejected with 401.
func (m *MockJwtManager) JWTMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token := ""
		if len(header) > len("Bearer ") {
			token = header[len("Bearer "):]
		}

		if m.Err != nil || token != m.JwtToken {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.Unauthorized})
			return
		}

		ctx.Set(utils.ClaimsKey.String(), m.Claims)
		ctx.Next()
	}
}
