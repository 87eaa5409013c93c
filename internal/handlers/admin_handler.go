package handlers

import (
	"errors"
	"net/http"
	"time"

	"campushub-server/internal/managers"
	"campushub-server/internal/schemas"
	"campushub-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// AdminHdl outlines the administrative endpoints. All routes are restricted
// to admins; operations touching admin accounts additionally require a super
// admin.
type AdminHdl interface {
	ListUsers(ctx *gin.Context)
	CreateUser(ctx *gin.Context)
	ChangeUserRole(ctx *gin.Context)
	ListEvents(ctx *gin.Context)
}

// AdminHandler is a concrete implementation of the AdminHdl interface.
type AdminHandler struct {
	databaseManager managers.DatabaseMgr
}

// NewAdminHandler returns a new AdminHandler with the given database manager.
func NewAdminHandler(databaseManager managers.DatabaseMgr) AdminHdl {
	return &AdminHandler{databaseManager: databaseManager}
}

// ListUsers returns all accounts, optionally filtered by a search term over
// email and name.
func (handler *AdminHandler) ListUsers(ctx *gin.Context) {
	offset, limit, err := utils.ParsePaginationParams(ctx)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	search := ctx.Query(utils.SearchParamKey)

	pool := handler.databaseManager.GetPool()

	filter := ` WHERE ($1 = '' OR email ILIKE '%' || $1 || '%'
		OR first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%')`

	var records int
	queryString := "SELECT COUNT(*) FROM campus_schema.users" + filter
	if err = pool.QueryRow(ctx, queryString, search).Scan(&records); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = `SELECT user_id, email, first_name, last_name, role, activated_at, created_at
		FROM campus_schema.users` + filter + `
		ORDER BY created_at
		OFFSET $2 LIMIT $3`
	rows, err := pool.Query(ctx, queryString, search, offset, limit)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	users := make([]schemas.AdminUserDTO, 0, limit)
	for rows.Next() {
		user := schemas.AdminUserDTO{}
		var activatedAt *time.Time
		var createdAt time.Time
		if err = rows.Scan(&user.UserId, &user.Email, &user.FirstName, &user.LastName,
			&user.Role, &activatedAt, &createdAt); err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		user.Activated = activatedAt != nil
		user.CreatedAt = createdAt.Format(time.RFC3339)
		users = append(users, user)
	}

	utils.SendPaginatedResponse(ctx, users, offset, limit, records)
}

// CreateUser creates an account with the given role, activated immediately
// and without any mail round trip. Creating admin accounts requires a super
// admin caller.
func (handler *AdminHandler) CreateUser(ctx *gin.Context) {
	call, ok := resolveCaller(ctx)
	if !ok {
		return
	}

	createRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.CreateUserRequest)

	role, err := schemas.ParseRole(createRequest.Role)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	if role.IsAdmin() && call.Role != schemas.RoleSuperAdmin {
		err = errors.New("only super admins may create admin accounts")
		utils.WriteAndLogError(ctx, schemas.Forbidden, http.StatusForbidden, err)
		return
	}

	var hashedPassword []byte
	hashedPassword, err = bcrypt.GenerateFromPassword([]byte(createRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	tx := utils.BeginTransaction(ctx, handler.databaseManager.GetPool())
	if tx == nil {
		return
	}
	defer func() {
		utils.RollbackTransaction(ctx, tx, err)
	}()

	queryString := `INSERT INTO campus_schema.users (user_id, email, password, first_name, last_name, role, created_at, activated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`
	if _, err = tx.Exec(ctx, queryString, uuid.New(), createRequest.Email, hashedPassword,
		createRequest.FirstName, createRequest.LastName, role, time.Now()); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			utils.WriteAndLogError(ctx, schemas.EmailTaken, http.StatusConflict, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.UserDTO{
		Email:     createRequest.Email,
		FirstName: createRequest.FirstName,
		LastName:  createRequest.LastName,
		Role:      role,
	}, http.StatusCreated)
}

// ChangeUserRole sets the role of another account. The route is restricted to
// super admins, who still cannot change their own role.
func (handler *AdminHandler) ChangeUserRole(ctx *gin.Context) {
	call, ok := resolveCaller(ctx)
	if !ok {
		return
	}

	userId, err := uuid.Parse(ctx.Param(utils.UserIdParamKey))
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, errors.New("malformed user id"))
		return
	}

	changeRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.ChangeRoleRequest)

	newRole, err := schemas.ParseRole(changeRequest.Role)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	if userId.String() == call.UserId {
		err = errors.New("cannot change own role")
		utils.WriteAndLogError(ctx, schemas.Forbidden, http.StatusForbidden, err)
		return
	}

	tx := utils.BeginTransaction(ctx, handler.databaseManager.GetPool())
	if tx == nil {
		return
	}
	defer func() {
		utils.RollbackTransaction(ctx, tx, err)
	}()

	queryString := "UPDATE campus_schema.users SET role = $1 WHERE user_id = $2"
	commandTag, err := tx.Exec(ctx, queryString, newRole, userId)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if commandTag.RowsAffected() == 0 {
		err = errors.New("user not found")
		utils.WriteAndLogError(ctx, schemas.UserNotFound, http.StatusNotFound, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "Role updated"}, http.StatusOK)
}

// ListEvents returns every event with its organizer and a status derived from
// the event dates.
func (handler *AdminHandler) ListEvents(ctx *gin.Context) {
	offset, limit, err := utils.ParsePaginationParams(ctx)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	pool := handler.databaseManager.GetPool()

	var records int
	queryString := "SELECT COUNT(*) FROM campus_schema.events"
	if err = pool.QueryRow(ctx, queryString).Scan(&records); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = `SELECT e.event_id, e.title, e.location, e.capacity, e.start_date, e.end_date, u.email,
			(SELECT COUNT(*) FROM campus_schema.registrations r WHERE r.event_id = e.event_id) AS registered
		FROM campus_schema.events e
		JOIN campus_schema.users u ON u.user_id = e.organizer_id
		ORDER BY e.start_date
		OFFSET $1 LIMIT $2`
	rows, err := pool.Query(ctx, queryString, offset, limit)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	now := time.Now()
	events := make([]schemas.AdminEventDTO, 0, limit)
	for rows.Next() {
		event := schemas.AdminEventDTO{}
		var startDate, endDate time.Time
		if err = rows.Scan(&event.EventId, &event.Title, &event.Location, &event.Capacity,
			&startDate, &endDate, &event.Organizer, &event.Registered); err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		event.StartDate = startDate.Format(time.RFC3339)
		event.EndDate = endDate.Format(time.RFC3339)
		event.Status = deriveEventStatus(now, startDate, endDate)
		events = append(events, event)
	}

	utils.SendPaginatedResponse(ctx, events, offset, limit, records)
}

func deriveEventStatus(now, startDate, endDate time.Time) string {
	switch {
	case now.Before(startDate):
		return "upcoming"
	case now.After(endDate):
		return "completed"
	default:
		return "ongoing"
	}
}
