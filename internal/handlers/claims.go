// Package handlers implements the HTTP handlers of the CampusHub API.
package handlers

import (
	"errors"
	"net/http"

	"campushub-server/internal/schemas"
	"campushub-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// caller is the authenticated identity resolved by the JWT middleware.
type caller struct {
	UserId string
	Email  string
	Role   schemas.Role
}

// resolveCaller extracts the caller from the JWT claims in the context. When
// the claims are missing or malformed it writes a 401 and returns false; the
// handler must not continue.
func resolveCaller(ctx *gin.Context) (caller, bool) {
	claims, ok := ctx.Value(utils.ClaimsKey.String()).(jwt.MapClaims)
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.Unauthorized})
		return caller{}, false
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	rawRole, _ := claims["role"].(string)
	role, err := schemas.ParseRole(rawRole)
	if sub == "" || err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.Unauthorized})
		return caller{}, false
	}

	return caller{UserId: sub, Email: email, Role: role}, true
}

// parseEventId parses the eventId path parameter. A malformed id gets a 400
// before any query runs.
func parseEventId(ctx *gin.Context) (uuid.UUID, bool) {
	eventId, err := uuid.Parse(ctx.Param(utils.EventIdParamKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, errors.New("malformed event id"))
		return uuid.Nil, false
	}

	return eventId, true
}
