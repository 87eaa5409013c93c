// Package routing wires the handlers into the gin engine.
package routing

import (
	"net/http"
	"time"

	"campushub-server/internal/handlers"
	"campushub-server/internal/managers"
	"campushub-server/internal/metrics"
	"campushub-server/internal/middleware"
	"campushub-server/internal/schemas"
	"campushub-server/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const (
	apiVersion = "1.0.0"
	apiName    = "CampusHub API"
)

// loginRateLimit keeps credential stuffing in check without bothering
// legitimate users.
const (
	loginRatePerSecond = 1
	loginBurst         = 5
)

// InitRouter initializes the router with the middleware stack and all routes.
func InitRouter(databaseMgr managers.DatabaseMgr, jwtMgr managers.JWTMgr, mailMgr managers.MailMgr, verifyEmails bool) *gin.Engine {
	router := gin.New()
	setupCommonMiddleware(router)

	userHdl := handlers.NewUserHandler(databaseMgr, jwtMgr, mailMgr, verifyEmails)
	eventHdl := handlers.NewEventHandler(databaseMgr)
	registrationHdl := handlers.NewRegistrationHandler(databaseMgr, mailMgr)
	adminHdl := handlers.NewAdminHandler(databaseMgr)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, &schemas.MetadataDTO{ApiVersion: apiVersion, ApiName: apiName})
	})
	router.GET("/health", healthCheck(databaseMgr))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	// Account lifecycle. Login carries its own rate limit.
	api.POST("/users", middleware.ValidateAndSanitizeStruct(&schemas.SignupRequest{}), userHdl.Signup)
	api.POST("/users/:email/activate", middleware.ValidateAndSanitizeStruct(&schemas.ActivationRequest{}), userHdl.ActivateUser)
	api.DELETE("/users/:email/activate", userHdl.ResendToken)
	api.POST("/users/login", middleware.RateLimit(rate.Limit(loginRatePerSecond), loginBurst),
		middleware.ValidateAndSanitizeStruct(&schemas.LoginRequest{}), userHdl.LoginUser)
	api.POST("/users/refresh", middleware.ValidateAndSanitizeStruct(&schemas.RefreshTokenRequest{}), userHdl.RefreshToken)
	api.POST("/users/forgot-password", middleware.ValidateAndSanitizeStruct(&schemas.ForgotPasswordRequest{}), userHdl.ForgotPassword)
	api.POST("/users/reset-password", middleware.ValidateAndSanitizeStruct(&schemas.ResetPasswordRequest{}), userHdl.ResetPassword)

	// The event catalog is public; everything that writes is not.
	api.GET("/events", eventHdl.ListEvents)
	api.GET("/events/:"+utils.EventIdParamKey, eventHdl.GetEvent)

	authenticated := api.Group("", jwtMgr.JWTMiddleware())

	authenticated.GET("/users/me", userHdl.GetProfile)
	authenticated.PATCH("/users", middleware.ValidateAndSanitizeStruct(&schemas.ChangePasswordRequest{}), userHdl.ChangePassword)

	authenticated.POST("/events/:"+utils.EventIdParamKey+"/register", registrationHdl.RegisterForEvent)
	authenticated.DELETE("/events/:"+utils.EventIdParamKey+"/register", registrationHdl.UnregisterFromEvent)
	authenticated.GET("/events/:"+utils.EventIdParamKey+"/registrations", registrationHdl.ListEventRegistrations)
	authenticated.GET("/registrations", registrationHdl.ListOwnRegistrations)

	organizers := authenticated.Group("", middleware.RequireRole(
		schemas.RoleOrganizer, schemas.RoleAdmin, schemas.RoleSuperAdmin))
	organizers.POST("/events", middleware.ValidateAndSanitizeStruct(&schemas.CreateEventRequest{}), eventHdl.CreateEvent)
	organizers.PUT("/events/:"+utils.EventIdParamKey, middleware.ValidateAndSanitizeStruct(&schemas.UpdateEventRequest{}), eventHdl.UpdateEvent)

	admins := authenticated.Group("/admin", middleware.RequireRole(
		schemas.RoleAdmin, schemas.RoleSuperAdmin))
	admins.GET("/users", adminHdl.ListUsers)
	admins.POST("/users", middleware.ValidateAndSanitizeStruct(&schemas.CreateUserRequest{}), adminHdl.CreateUser)
	admins.PATCH("/users/:"+utils.UserIdParamKey, middleware.RequireRole(schemas.RoleSuperAdmin),
		middleware.ValidateAndSanitizeStruct(&schemas.ChangeRoleRequest{}), adminHdl.ChangeUserRole)
	admins.GET("/events", adminHdl.ListEvents)
	admins.DELETE("/events/:"+utils.EventIdParamKey, eventHdl.DeleteEvent)

	return router
}

func setupCommonMiddleware(router *gin.Engine) {
	router.Use(middleware.InjectTrace())
	router.Use(middleware.LogRequest())
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())
	router.Use(middleware.SanitizePath())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
}

// healthCheck reports readiness by acquiring a connection from the pool and
// pinging the database.
func healthCheck(databaseMgr managers.DatabaseMgr) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		conn, err := databaseMgr.GetPool().Acquire(ctx)
		if err != nil {
			ctx.JSON(http.StatusServiceUnavailable, &schemas.MessageDTO{Message: "unhealthy"})
			return
		}
		defer conn.Release()

		if err := conn.Ping(ctx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, &schemas.MessageDTO{Message: "unhealthy"})
			return
		}

		ctx.JSON(http.StatusOK, &schemas.MessageDTO{Message: "healthy"})
	}
}
