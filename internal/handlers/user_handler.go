package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"campushub-server/internal/managers"
	"campushub-server/internal/metrics"
	"campushub-server/internal/schemas"
	"campushub-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// UserHdl outlines the account lifecycle endpoints.
type UserHdl interface {
	Signup(ctx *gin.Context)
	ActivateUser(ctx *gin.Context)
	ResendToken(ctx *gin.Context)
	LoginUser(ctx *gin.Context)
	RefreshToken(ctx *gin.Context)
	ForgotPassword(ctx *gin.Context)
	ResetPassword(ctx *gin.Context)
	ChangePassword(ctx *gin.Context)
	GetProfile(ctx *gin.Context)
}

// UserHandler is a concrete implementation of the UserHdl interface.
type UserHandler struct {
	databaseManager managers.DatabaseMgr
	jwtManager      managers.JWTMgr
	mailManager     managers.MailMgr
	validator       *utils.Validator
	verifyEmails    bool
}

const (
	activationTokenLifetime = 2 * time.Hour
	resetTokenLifetime      = 30 * time.Minute
)

// NewUserHandler returns a new UserHandler with the given managers. When
// verifyEmails is set, signup checks the MX records of the address before
// creating the account.
func NewUserHandler(databaseManager managers.DatabaseMgr, jwtManager managers.JWTMgr, mailManager managers.MailMgr, verifyEmails bool) UserHdl {
	return &UserHandler{
		databaseManager: databaseManager,
		jwtManager:      jwtManager,
		mailManager:     mailManager,
		validator:       utils.GetValidator(),
		verifyEmails:    verifyEmails,
	}
}

// Signup creates a new, not yet activated user account and sends the
// activation code by mail. The email must not be in use.
func (handler *UserHandler) Signup(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.databaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(ctx, tx, err)
	}()

	signupRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.SignupRequest)

	var existingUserId uuid.UUID
	queryString := "SELECT user_id FROM campus_schema.users WHERE email = $1"
	if err = tx.QueryRow(ctx, queryString, signupRequest.Email).Scan(&existingUserId); err == nil {
		err = errors.New("email already in use")
		utils.WriteAndLogError(ctx, schemas.EmailTaken, http.StatusConflict, err)
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	err = nil

	if handler.verifyEmails && !handler.validator.VerifyEmail(signupRequest.Email) {
		err = errors.New("email unreachable")
		utils.WriteAndLogError(ctx, schemas.EmailUnreachable, http.StatusUnprocessableEntity, err)
		return
	}

	var hashedPassword []byte
	hashedPassword, err = bcrypt.GenerateFromPassword([]byte(signupRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	userId := uuid.New()
	queryString = `INSERT INTO campus_schema.users (user_id, email, password, first_name, last_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err = tx.Exec(ctx, queryString, userId, signupRequest.Email, hashedPassword,
		signupRequest.FirstName, signupRequest.LastName, schemas.RoleUser, time.Now()); err != nil {
		// The unique constraint decides under concurrent signups.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			utils.WriteAndLogError(ctx, schemas.EmailTaken, http.StatusConflict, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = handler.generateAndSendToken(ctx, tx, userId, signupRequest.Email, signupRequest.FirstName); err != nil {
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.UserDTO{
		Email:     signupRequest.Email,
		FirstName: signupRequest.FirstName,
		LastName:  signupRequest.LastName,
		Role:      schemas.RoleUser,
	}, http.StatusCreated)
}

// ActivateUser redeems the 6-digit activation code for the user given by the
// email path parameter and returns a fresh token pair on success.
func (handler *UserHandler) ActivateUser(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.databaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(ctx, tx, err)
	}()

	email := ctx.Param(utils.EmailParamKey)
	activationRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.ActivationRequest)

	var userId uuid.UUID
	var role schemas.Role
	var activatedAt *time.Time
	queryString := "SELECT user_id, role, activated_at FROM campus_schema.users WHERE email = $1"
	if err = tx.QueryRow(ctx, queryString, email).Scan(&userId, &role, &activatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if activatedAt != nil {
		err = errors.New("account already activated")
		utils.WriteAndLogError(ctx, schemas.UserAlreadyActivated, http.StatusAlreadyReported, err)
		return
	}

	var expiresAt time.Time
	queryString = "SELECT expires_at FROM campus_schema.activation_tokens WHERE user_id = $1 AND token = $2"
	if err = tx.QueryRow(ctx, queryString, userId, activationRequest.Token).Scan(&expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.InvalidToken, http.StatusUnauthorized, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if time.Now().After(expiresAt) {
		err = errors.New("activation token expired")
		utils.WriteAndLogError(ctx, schemas.TokenExpired, http.StatusUnauthorized, err)
		return
	}

	queryString = "UPDATE campus_schema.users SET activated_at = $1 WHERE user_id = $2"
	if _, err = tx.Exec(ctx, queryString, time.Now(), userId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "DELETE FROM campus_schema.activation_tokens WHERE user_id = $1"
	if _, err = tx.Exec(ctx, queryString, userId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	tokenPair, err := handler.generateTokenPair(ctx, userId.String(), email, role)
	if err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, tokenPair, http.StatusOK)
}

// ResendToken invalidates any previous activation code for the user and sends
// a fresh one.
func (handler *UserHandler) ResendToken(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.databaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(ctx, tx, err)
	}()

	email := ctx.Param(utils.EmailParamKey)

	var userId uuid.UUID
	var firstName string
	var activatedAt *time.Time
	queryString := "SELECT user_id, first_name, activated_at FROM campus_schema.users WHERE email = $1"
	if err = tx.QueryRow(ctx, queryString, email).Scan(&userId, &firstName, &activatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if activatedAt != nil {
		err = errors.New("account already activated")
		utils.WriteAndLogError(ctx, schemas.UserAlreadyActivated, http.StatusAlreadyReported, err)
		return
	}

	if err = handler.generateAndSendToken(ctx, tx, userId, email, firstName); err != nil {
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	ctx.Status(http.StatusNoContent)
}

// LoginUser checks the credentials and returns a token pair.
func (handler *UserHandler) LoginUser(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.databaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(ctx, tx, err)
	}()

	loginRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)

	var userId uuid.UUID
	var hashedPassword []byte
	var role schemas.Role
	var activatedAt *time.Time
	queryString := "SELECT user_id, password, role, activated_at FROM campus_schema.users WHERE email = $1"
	if err = tx.QueryRow(ctx, queryString, loginRequest.Email).Scan(&userId, &hashedPassword, &role, &activatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.InvalidCredentials, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if activatedAt == nil {
		err = errors.New("account not activated")
		utils.WriteAndLogError(ctx, schemas.UserNotActivated, http.StatusForbidden, err)
		return
	}

	if err = bcrypt.CompareHashAndPassword(hashedPassword, []byte(loginRequest.Password)); err != nil {
		utils.WriteAndLogError(ctx, schemas.InvalidCredentials, http.StatusForbidden, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	tokenPair, err := handler.generateTokenPair(ctx, userId.String(), loginRequest.Email, role)
	if err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, tokenPair, http.StatusOK)
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (handler *UserHandler) RefreshToken(ctx *gin.Context) {
	refreshRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.RefreshTokenRequest)

	claims, err := handler.jwtManager.ValidateJWT(refreshRequest.RefreshToken)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InvalidToken, http.StatusUnauthorized, err)
		return
	}

	mapClaims, ok := claims.(jwt.MapClaims)
	if !ok {
		utils.WriteAndLogError(ctx, schemas.InvalidToken, http.StatusUnauthorized, errors.New("malformed claims"))
		return
	}

	if refresh, ok := mapClaims["refresh"].(bool); !ok || !refresh {
		utils.WriteAndLogError(ctx, schemas.InvalidToken, http.StatusUnauthorized, errors.New("access token used as refresh token"))
		return
	}

	userId, _ := mapClaims["sub"].(string)
	email, _ := mapClaims["email"].(string)
	rawRole, _ := mapClaims["role"].(string)
	role, err := schemas.ParseRole(rawRole)
	if userId == "" || err != nil {
		utils.WriteAndLogError(ctx, schemas.InvalidToken, http.StatusUnauthorized, errors.New("malformed claims"))
		return
	}

	tokenPair, err := handler.generateTokenPair(ctx, userId, email, role)
	if err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, tokenPair, http.StatusOK)
}

// ForgotPassword stores a reset code for the account and mails it out. The
// code is valid for 30 minutes.
func (handler *UserHandler) ForgotPassword(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.databaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(ctx, tx, err)
	}()

	forgotRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.ForgotPasswordRequest)

	var userId uuid.UUID
	var firstName string
	queryString := "SELECT user_id, first_name FROM campus_schema.users WHERE email = $1"
	if err = tx.QueryRow(ctx, queryString, forgotRequest.Email).Scan(&userId, &firstName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "DELETE FROM campus_schema.password_reset_tokens WHERE user_id = $1"
	if _, err = tx.Exec(ctx, queryString, userId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	var token string
	token, err = generateResetToken()
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	queryString = "INSERT INTO campus_schema.password_reset_tokens (token_id, user_id, token, expires_at) VALUES ($1, $2, $3, $4)"
	if _, err = tx.Exec(ctx, queryString, uuid.New(), userId, token, time.Now().Add(resetTokenLifetime)); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	mailErr := handler.mailManager.SendPasswordResetMail(forgotRequest.Email, firstName, token)
	metrics.CountMail("password_reset", mailErr)
	if mailErr != nil {
		err = mailErr
		utils.WriteAndLogError(ctx, schemas.EmailNotSent, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "Password reset code sent"}, http.StatusOK)
}

// ResetPassword redeems a reset code and sets the new password.
func (handler *UserHandler) ResetPassword(ctx *gin.Context) {
	tx := utils.BeginTransaction(ctx, handler.databaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(ctx, tx, err)
	}()

	resetRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.ResetPasswordRequest)

	var userId uuid.UUID
	queryString := "SELECT user_id FROM campus_schema.users WHERE email = $1"
	if err = tx.QueryRow(ctx, queryString, resetRequest.Email).Scan(&userId); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	var expiresAt time.Time
	queryString = "SELECT expires_at FROM campus_schema.password_reset_tokens WHERE user_id = $1 AND token = $2"
	if err = tx.QueryRow(ctx, queryString, userId, resetRequest.Token).Scan(&expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.InvalidToken, http.StatusUnauthorized, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if time.Now().After(expiresAt) {
		err = errors.New("reset token expired")
		utils.WriteAndLogError(ctx, schemas.TokenExpired, http.StatusUnauthorized, err)
		return
	}

	var hashedPassword []byte
	hashedPassword, err = bcrypt.GenerateFromPassword([]byte(resetRequest.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	queryString = "UPDATE campus_schema.users SET password = $1 WHERE user_id = $2"
	if _, err = tx.Exec(ctx, queryString, hashedPassword, userId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "DELETE FROM campus_schema.password_reset_tokens WHERE user_id = $1"
	if _, err = tx.Exec(ctx, queryString, userId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "Password changed"}, http.StatusOK)
}

// ChangePassword sets a new password for the calling user after verifying the
// old one.
func (handler *UserHandler) ChangePassword(ctx *gin.Context) {
	call, ok := resolveCaller(ctx)
	if !ok {
		return
	}

	tx := utils.BeginTransaction(ctx, handler.databaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(ctx, tx, err)
	}()

	changeRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.ChangePasswordRequest)

	var hashedPassword []byte
	queryString := "SELECT password FROM campus_schema.users WHERE user_id = $1"
	if err = tx.QueryRow(ctx, queryString, call.UserId).Scan(&hashedPassword); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = bcrypt.CompareHashAndPassword(hashedPassword, []byte(changeRequest.OldPassword)); err != nil {
		utils.WriteAndLogError(ctx, schemas.InvalidCredentials, http.StatusForbidden, err)
		return
	}

	var newHashedPassword []byte
	newHashedPassword, err = bcrypt.GenerateFromPassword([]byte(changeRequest.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	queryString = "UPDATE campus_schema.users SET password = $1 WHERE user_id = $2"
	if _, err = tx.Exec(ctx, queryString, newHashedPassword, call.UserId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	ctx.Status(http.StatusNoContent)
}

// GetProfile returns the profile of the calling user, including the number of
// events they are registered for.
func (handler *UserHandler) GetProfile(ctx *gin.Context) {
	call, ok := resolveCaller(ctx)
	if !ok {
		return
	}

	pool := handler.databaseManager.GetPool()

	profile := schemas.UserProfileDTO{}
	queryString := "SELECT email, first_name, last_name, role FROM campus_schema.users WHERE user_id = $1"
	err := pool.QueryRow(ctx, queryString, call.UserId).
		Scan(&profile.Email, &profile.FirstName, &profile.LastName, &profile.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "SELECT COUNT(*) FROM campus_schema.registrations WHERE user_id = $1"
	if err = pool.QueryRow(ctx, queryString, call.UserId).Scan(&profile.Registrations); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, &profile, http.StatusOK)
}

// generateAndSendToken replaces any pending activation code for the user with
// a fresh one and mails it. A mail failure writes the error response and
// leaves the transaction to be rolled back.
func (handler *UserHandler) generateAndSendToken(ctx *gin.Context, tx pgx.Tx, userId uuid.UUID, email, firstName string) error {
	token, err := generateActivationToken()
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return err
	}

	queryString := "DELETE FROM campus_schema.activation_tokens WHERE user_id = $1"
	if _, err = tx.Exec(ctx, queryString, userId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}

	queryString = "INSERT INTO campus_schema.activation_tokens (token_id, user_id, token, expires_at) VALUES ($1, $2, $3, $4)"
	if _, err = tx.Exec(ctx, queryString, uuid.New(), userId, token, time.Now().Add(activationTokenLifetime)); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}

	mailErr := handler.mailManager.SendActivationMail(email, firstName, token)
	metrics.CountMail("activation", mailErr)
	if mailErr != nil {
		utils.WriteAndLogError(ctx, schemas.EmailNotSent, http.StatusInternalServerError, mailErr)
		return mailErr
	}

	return nil
}

// generateTokenPair issues an access and a refresh token for the user. On
// failure it writes the error response and returns a nil pair.
func (handler *UserHandler) generateTokenPair(ctx *gin.Context, userId, email string, role schemas.Role) (*schemas.TokenPairDTO, error) {
	token, err := handler.jwtManager.GenerateJWT(userId, email, role, false)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return nil, err
	}

	refreshToken, err := handler.jwtManager.GenerateJWT(userId, email, role, true)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return nil, err
	}

	return &schemas.TokenPairDTO{Token: token, RefreshToken: refreshToken}, nil
}

// generateActivationToken returns a random 6-digit numeric code.
func generateActivationToken() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}

// generateResetToken returns a random 64-character hex code.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
