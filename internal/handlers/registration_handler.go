package handlers

import (
	"errors"
	"net/http"
	"time"

	"campushub-server/internal/managers"
	"campushub-server/internal/metrics"
	"campushub-server/internal/schemas"
	"campushub-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// RegistrationHdl outlines the event registration endpoints.
type RegistrationHdl interface {
	RegisterForEvent(ctx *gin.Context)
	UnregisterFromEvent(ctx *gin.Context)
	ListOwnRegistrations(ctx *gin.Context)
	ListEventRegistrations(ctx *gin.Context)
}

// RegistrationHandler is a concrete implementation of the RegistrationHdl
// interface.
type RegistrationHandler struct {
	databaseManager managers.DatabaseMgr
	mailManager     managers.MailMgr
}

// NewRegistrationHandler returns a new RegistrationHandler with the given
// managers.
func NewRegistrationHandler(databaseManager managers.DatabaseMgr, mailManager managers.MailMgr) RegistrationHdl {
	return &RegistrationHandler{
		databaseManager: databaseManager,
		mailManager:     mailManager,
	}
}

// RegisterForEvent registers the calling user for an event. The event row is
// locked for the duration of the transaction, so the capacity check and the
// insert are atomic: an event can never be oversubscribed, not even under
// concurrent requests. The unique constraint on (event_id, user_id) backs the
// duplicate check the same way.
func (handler *RegistrationHandler) RegisterForEvent(ctx *gin.Context) {
	call, ok := resolveCaller(ctx)
	if !ok {
		return
	}

	eventId, ok := parseEventId(ctx)
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

	var capacity *int32
	var title string
	var startDate time.Time
	queryString := "SELECT title, capacity, start_date FROM campus_schema.events WHERE event_id = $1 FOR UPDATE"
	if err = tx.QueryRow(ctx, queryString, eventId).Scan(&title, &capacity, &startDate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.RegistrationsTotal.WithLabelValues("not_found").Inc()
			utils.WriteAndLogError(ctx, schemas.EventNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if capacity != nil {
		var registered int
		queryString = "SELECT COUNT(*) FROM campus_schema.registrations WHERE event_id = $1"
		if err = tx.QueryRow(ctx, queryString, eventId).Scan(&registered); err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		// Covers capacity zero as well: nobody gets in.
		if registered >= int(*capacity) {
			err = errors.New("event is at capacity")
			metrics.RegistrationsTotal.WithLabelValues("at_capacity").Inc()
			utils.WriteAndLogError(ctx, schemas.EventAtCapacity, http.StatusBadRequest, err)
			return
		}
	}

	registrationId := uuid.New()
	createdAt := time.Now()
	queryString = `INSERT INTO campus_schema.registrations (registration_id, event_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err = tx.Exec(ctx, queryString, registrationId, eventId, call.UserId,
		schemas.RegistrationStatusRegistered, createdAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			utils.WriteAndLogError(ctx, schemas.AlreadyRegistered, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	metrics.RegistrationsTotal.WithLabelValues("registered").Inc()
	handler.sendConfirmationMail(ctx, call.UserId, title, startDate)

	utils.WriteAndLogResponse(ctx, &schemas.RegistrationCreatedDTO{
		Message: "Successfully registered for event",
		Registration: schemas.RegistrationDTO{
			RegistrationId:   registrationId,
			Status:           schemas.RegistrationStatusRegistered,
			RegistrationDate: createdAt.Format(time.RFC3339),
		},
	}, http.StatusCreated)
}

// UnregisterFromEvent removes the calling user's registration for an event.
// A user who is not registered gets a 404; the next registration attempt
// starts from a clean slate.
func (handler *RegistrationHandler) UnregisterFromEvent(ctx *gin.Context) {
	call, ok := resolveCaller(ctx)
	if !ok {
		return
	}

	eventId, ok := parseEventId(ctx)
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

	var exists bool
	queryString := "SELECT EXISTS(SELECT 1 FROM campus_schema.events WHERE event_id = $1)"
	if err = tx.QueryRow(ctx, queryString, eventId).Scan(&exists); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	if !exists {
		err = errors.New("event not found")
		utils.WriteAndLogError(ctx, schemas.EventNotFound, http.StatusNotFound, err)
		return
	}

	var commandTag pgconn.CommandTag
	queryString = "DELETE FROM campus_schema.registrations WHERE event_id = $1 AND user_id = $2"
	if commandTag, err = tx.Exec(ctx, queryString, eventId, call.UserId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if commandTag.RowsAffected() == 0 {
		err = errors.New("registration not found")
		utils.WriteAndLogError(ctx, schemas.RegistrationNotFound, http.StatusNotFound, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	metrics.RegistrationsTotal.WithLabelValues("unregistered").Inc()
	utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "Successfully unregistered from event"}, http.StatusOK)
}

// ListOwnRegistrations returns the calling user's registrations joined with
// their events, newest first.
func (handler *RegistrationHandler) ListOwnRegistrations(ctx *gin.Context) {
	call, ok := resolveCaller(ctx)
	if !ok {
		return
	}

	offset, limit, err := utils.ParsePaginationParams(ctx)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	pool := handler.databaseManager.GetPool()

	var records int
	queryString := "SELECT COUNT(*) FROM campus_schema.registrations WHERE user_id = $1"
	if err = pool.QueryRow(ctx, queryString, call.UserId).Scan(&records); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = `SELECT r.registration_id, r.status, r.created_at,
			e.event_id, e.title, e.description, e.location, e.category, e.capacity, e.start_date, e.end_date,
			(SELECT COUNT(*) FROM campus_schema.registrations WHERE event_id = e.event_id) AS registered
		FROM campus_schema.registrations r
		JOIN campus_schema.events e ON e.event_id = r.event_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		OFFSET $2 LIMIT $3`
	rows, err := pool.Query(ctx, queryString, call.UserId, offset, limit)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	registrations := make([]schemas.UserRegistrationDTO, 0, limit)
	for rows.Next() {
		registration := schemas.Registration{}
		event := schemas.Event{}
		var registered int
		if err = rows.Scan(&registration.ID, &registration.Status, &registration.CreatedAt,
			&event.ID, &event.Title, &event.Description, &event.Location, &event.Category,
			&event.Capacity, &event.StartDate, &event.EndDate, &registered); err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		registrations = append(registrations, schemas.UserRegistrationDTO{
			RegistrationId:   registration.ID,
			Status:           registration.Status,
			RegistrationDate: registration.CreatedAt.Format(time.RFC3339),
			Event: schemas.EventDTO{
				EventId:     event.ID,
				Title:       event.Title,
				Description: event.Description,
				Location:    event.Location,
				Category:    event.Category,
				Capacity:    event.Capacity,
				Registered:  registered,
				StartDate:   event.StartDate.Format(time.RFC3339),
				EndDate:     event.EndDate.Format(time.RFC3339),
			},
		})
	}

	utils.SendPaginatedResponse(ctx, registrations, offset, limit, records)
}

// ListEventRegistrations returns the attendee list of an event. Only the
// organizer of the event and admins may see it.
func (handler *RegistrationHandler) ListEventRegistrations(ctx *gin.Context) {
	call, ok := resolveCaller(ctx)
	if !ok {
		return
	}

	eventId, ok := parseEventId(ctx)
	if !ok {
		return
	}

	offset, limit, err := utils.ParsePaginationParams(ctx)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	pool := handler.databaseManager.GetPool()

	var organizerId uuid.UUID
	queryString := "SELECT organizer_id FROM campus_schema.events WHERE event_id = $1"
	if err = pool.QueryRow(ctx, queryString, eventId).Scan(&organizerId); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.EventNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if organizerId.String() != call.UserId && !call.Role.IsAdmin() {
		err = errors.New("caller is neither the organizer nor an admin")
		utils.WriteAndLogError(ctx, schemas.Forbidden, http.StatusForbidden, err)
		return
	}

	var records int
	queryString = "SELECT COUNT(*) FROM campus_schema.registrations WHERE event_id = $1"
	if err = pool.QueryRow(ctx, queryString, eventId).Scan(&records); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = `SELECT r.registration_id, u.email, u.first_name, u.last_name, r.created_at
		FROM campus_schema.registrations r
		JOIN campus_schema.users u ON u.user_id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.created_at
		OFFSET $2 LIMIT $3`
	rows, err := pool.Query(ctx, queryString, eventId, offset, limit)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	attendees := make([]schemas.AttendeeDTO, 0, limit)
	for rows.Next() {
		attendee := schemas.AttendeeDTO{}
		var registrationDate time.Time
		if err = rows.Scan(&attendee.RegistrationId, &attendee.Email, &attendee.FirstName,
			&attendee.LastName, &registrationDate); err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		attendee.RegistrationDate = registrationDate.Format(time.RFC3339)
		attendees = append(attendees, attendee)
	}

	utils.SendPaginatedResponse(ctx, attendees, offset, limit, records)
}

// sendConfirmationMail dispatches the registration confirmation after the
// commit. It runs in the background and never fails the request.
func (handler *RegistrationHandler) sendConfirmationMail(ctx *gin.Context, userId, eventTitle string, eventDate time.Time) {
	var email, firstName string
	queryString := "SELECT email, first_name FROM campus_schema.users WHERE user_id = $1"
	if err := handler.databaseManager.GetPool().QueryRow(ctx, queryString, userId).Scan(&email, &firstName); err != nil {
		utils.LogMessageWithFieldsAndError(ctx, "warn", "Skipping confirmation mail, user lookup failed", err)
		return
	}

	go func() {
		err := handler.mailManager.SendRegistrationConfirmationMail(email, firstName,
			eventTitle, eventDate.Format(time.RFC3339))
		metrics.CountMail("registration_confirmation", err)
		if err != nil {
			utils.LogMessage("warn", "Error sending confirmation mail: "+err.Error())
		}
	}()
}
