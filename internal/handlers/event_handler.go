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
	"github.com/jackc/pgx/v5"
)

// EventHdl outlines the event catalog endpoints.
type EventHdl interface {
	CreateEvent(ctx *gin.Context)
	ListEvents(ctx *gin.Context)
	GetEvent(ctx *gin.Context)
	UpdateEvent(ctx *gin.Context)
	DeleteEvent(ctx *gin.Context)
}

// EventHandler is a concrete implementation of the EventHdl interface.
type EventHandler struct {
	databaseManager managers.DatabaseMgr
}

// NewEventHandler returns a new EventHandler with the given database manager.
func NewEventHandler(databaseManager managers.DatabaseMgr) EventHdl {
	return &EventHandler{databaseManager: databaseManager}
}

// CreateEvent creates a new event owned by the calling user. The route is
// restricted to organizers and admins.
func (handler *EventHandler) CreateEvent(ctx *gin.Context) {
	call, ok := resolveCaller(ctx)
	if !ok {
		return
	}

	createRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.CreateEventRequest)

	startDate, endDate, err := parseEventDates(createRequest.StartDate, createRequest.EndDate)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	category := createRequest.Category
	if category == "" {
		category = "General"
	}

	tx := utils.BeginTransaction(ctx, handler.databaseManager.GetPool())
	if tx == nil {
		return
	}
	defer func() {
		utils.RollbackTransaction(ctx, tx, err)
	}()

	eventId := uuid.New()
	queryString := `INSERT INTO campus_schema.events (event_id, title, description, location, category, capacity, start_date, end_date, organizer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err = tx.Exec(ctx, queryString, eventId, createRequest.Title, createRequest.Description,
		createRequest.Location, category, createRequest.Capacity, startDate, endDate,
		call.UserId, time.Now()); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.EventDTO{
		EventId:     eventId,
		Title:       createRequest.Title,
		Description: createRequest.Description,
		Location:    createRequest.Location,
		Category:    category,
		Capacity:    createRequest.Capacity,
		Registered:  0,
		StartDate:   startDate.Format(time.RFC3339),
		EndDate:     endDate.Format(time.RFC3339),
	}, http.StatusCreated)
}

// ListEvents returns the event catalog with registration counts, optionally
// filtered by a title search and a category. The list is public.
func (handler *EventHandler) ListEvents(ctx *gin.Context) {
	offset, limit, err := utils.ParsePaginationParams(ctx)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	search := ctx.Query(utils.SearchParamKey)
	category := ctx.Query(utils.CategoryParamKey)

	pool := handler.databaseManager.GetPool()

	filter := ` WHERE ($1 = '' OR title ILIKE '%' || $1 || '%'
		OR description ILIKE '%' || $1 || '%' OR location ILIKE '%' || $1 || '%')
		AND ($2 = '' OR category = $2)`

	var records int
	queryString := "SELECT COUNT(*) FROM campus_schema.events" + filter
	if err = pool.QueryRow(ctx, queryString, search, category).Scan(&records); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = `SELECT event_id, title, description, location, category, capacity, start_date, end_date,
			(SELECT COUNT(*) FROM campus_schema.registrations r WHERE r.event_id = e.event_id) AS registered
		FROM campus_schema.events e` + filter + `
		ORDER BY start_date
		OFFSET $3 LIMIT $4`
	rows, err := pool.Query(ctx, queryString, search, category, offset, limit)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	events := make([]schemas.EventDTO, 0, limit)
	for rows.Next() {
		event := schemas.EventDTO{}
		var startDate, endDate time.Time
		if err = rows.Scan(&event.EventId, &event.Title, &event.Description, &event.Location,
			&event.Category, &event.Capacity, &startDate, &endDate, &event.Registered); err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		event.StartDate = startDate.Format(time.RFC3339)
		event.EndDate = endDate.Format(time.RFC3339)
		events = append(events, event)
	}

	utils.SendPaginatedResponse(ctx, events, offset, limit, records)
}

// GetEvent returns a single event with its registration count. The detail
// view is public.
func (handler *EventHandler) GetEvent(ctx *gin.Context) {
	eventId, ok := parseEventId(ctx)
	if !ok {
		return
	}

	pool := handler.databaseManager.GetPool()

	event := schemas.Event{}
	var registered int
	queryString := `SELECT event_id, title, description, location, category, capacity, start_date, end_date,
			(SELECT COUNT(*) FROM campus_schema.registrations r WHERE r.event_id = e.event_id) AS registered
		FROM campus_schema.events e
		WHERE event_id = $1`
	err := pool.QueryRow(ctx, queryString, eventId).Scan(&event.ID, &event.Title,
		&event.Description, &event.Location, &event.Category, &event.Capacity,
		&event.StartDate, &event.EndDate, &registered)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.EventNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.EventDTO{
		EventId:     event.ID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		Category:    event.Category,
		Capacity:    event.Capacity,
		Registered:  registered,
		StartDate:   event.StartDate.Format(time.RFC3339),
		EndDate:     event.EndDate.Format(time.RFC3339),
	}, http.StatusOK)
}

// UpdateEvent replaces the event with the given state. Only the organizer of
// the event and admins may update it. Lowering the capacity below the current
// registration count is allowed; existing registrations stay.
func (handler *EventHandler) UpdateEvent(ctx *gin.Context) {
	call, ok := resolveCaller(ctx)
	if !ok {
		return
	}

	eventId, ok := parseEventId(ctx)
	if !ok {
		return
	}
	updateRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.UpdateEventRequest)

	startDate, endDate, err := parseEventDates(updateRequest.StartDate, updateRequest.EndDate)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	category := updateRequest.Category
	if category == "" {
		category = "General"
	}

	tx := utils.BeginTransaction(ctx, handler.databaseManager.GetPool())
	if tx == nil {
		return
	}
	defer func() {
		utils.RollbackTransaction(ctx, tx, err)
	}()

	var organizerId uuid.UUID
	queryString := "SELECT organizer_id FROM campus_schema.events WHERE event_id = $1"
	if err = tx.QueryRow(ctx, queryString, eventId).Scan(&organizerId); err != nil {
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

	queryString = `UPDATE campus_schema.events
		SET title = $1, description = $2, location = $3, category = $4, capacity = $5, start_date = $6, end_date = $7
		WHERE event_id = $8`
	if _, err = tx.Exec(ctx, queryString, updateRequest.Title, updateRequest.Description,
		updateRequest.Location, category, updateRequest.Capacity, startDate, endDate, eventId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	var registered int
	queryString = "SELECT COUNT(*) FROM campus_schema.registrations WHERE event_id = $1"
	if err = tx.QueryRow(ctx, queryString, eventId).Scan(&registered); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.EventDTO{
		EventId:     eventId,
		Title:       updateRequest.Title,
		Description: updateRequest.Description,
		Location:    updateRequest.Location,
		Category:    category,
		Capacity:    updateRequest.Capacity,
		Registered:  registered,
		StartDate:   startDate.Format(time.RFC3339),
		EndDate:     endDate.Format(time.RFC3339),
	}, http.StatusOK)
}

// DeleteEvent removes an event and, via the foreign key cascade, all of its
// registrations. The route is restricted to admins.
func (handler *EventHandler) DeleteEvent(ctx *gin.Context) {
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

	queryString := "DELETE FROM campus_schema.events WHERE event_id = $1"
	commandTag, err := tx.Exec(ctx, queryString, eventId)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if commandTag.RowsAffected() == 0 {
		err = errors.New("event not found")
		utils.WriteAndLogError(ctx, schemas.EventNotFound, http.StatusNotFound, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	ctx.Status(http.StatusNoContent)
}

// parseEventDates parses the RFC 3339 date pair and enforces that the event
// ends after it starts.
func parseEventDates(rawStart, rawEnd string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(time.RFC3339, rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	endDate, err := time.Parse(time.RFC3339, rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if !endDate.After(startDate) {
		return time.Time{}, time.Time{}, errors.New("event must end after it starts")
	}

	return startDate, endDate, nil
}
