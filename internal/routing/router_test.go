package routing

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"campushub-server/internal/managers"
	"campushub-server/internal/managers/mocks"
	"campushub-server/internal/schemas"

	"github.com/gavv/httpexpect/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func setupMocks(t *testing.T) (*mocks.MockDatabaseManager, managers.JWTMgr, *mocks.MockMailManager) {
	poolMock, err := pgxmock.NewPool()
	if err != nil {
		log.Errorf("Error creating mock database pool: %v", err)
	}

	databaseMgrMock := &mocks.MockDatabaseManager{}
	databaseMgrMock.On("GetPool").Return(poolMock)

	t.Setenv("ENVIRONMENT", "test")
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.Errorf("Error generating key pair: %v", err)
	}
	jwtMgr := managers.NewJWTManager(privateKey, publicKey)

	mailMgrMock := &mocks.MockMailManager{}
	mailMgrMock.On("SendActivationMail", mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)
	mailMgrMock.On("SendPasswordResetMail", mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)
	mailMgrMock.On("SendRegistrationConfirmationMail", mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	return databaseMgrMock, jwtMgr, mailMgrMock
}

func TestSignup(t *testing.T) {
	signupBody := map[string]interface{}{
		"email":     "test@example.com",
		"password":  "test.Password123",
		"firstName": "Testa",
		"lastName":  "Testing",
	}

	testCases := []struct {
		name         string
		body         map[string]interface{}
		status       int
		responseBody map[string]interface{}
	}{
		{
			"ValidSignup",
			signupBody,
			http.StatusCreated,
			map[string]interface{}{
				"email":     "test@example.com",
				"firstName": "Testa",
				"lastName":  "Testing",
				"role":      "USER",
			},
		},
		{
			"InvalidEmail",
			map[string]interface{}{
				"email":     "test@example@.com",
				"password":  "test.Password123",
				"firstName": "Testa",
			},
			http.StatusBadRequest,
			map[string]interface{}{
				"error": map[string]interface{}{
					"code":    "ERR-001",
					"message": "The request body is invalid. Please check the request body and try again.",
				},
			},
		},
		{
			"WeakPassword",
			map[string]interface{}{
				"email":     "test@example.com",
				"password":  "password",
				"firstName": "Testa",
			},
			http.StatusBadRequest,
			map[string]interface{}{
				"error": map[string]interface{}{
					"code":    "ERR-001",
					"message": "The request body is invalid. Please check the request body and try again.",
				},
			},
		},
		{
			"DuplicateEmail",
			signupBody,
			http.StatusConflict,
			map[string]interface{}{
				"error": map[string]interface{}{
					"code":    "ERR-002",
					"message": "The email is already registered. Please log in or use another email.",
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
			router := InitRouter(databaseMgrMock, jwtMgr, mailMgrMock, false)

			server := httptest.NewServer(router)
			defer server.Close()

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			switch tc.name {
			case "InvalidEmail", "WeakPassword":
				// Rejected by validation before any query runs.
			case "DuplicateEmail":
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT user_id").WithArgs(tc.body["email"]).
					WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(uuid.New()))
				poolMock.ExpectRollback()
			default:
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT user_id").WithArgs(tc.body["email"]).
					WillReturnRows(pgxmock.NewRows([]string{"user_id"}))
				poolMock.ExpectExec("INSERT INTO campus_schema.users").
					WithArgs(pgxmock.AnyArg(), tc.body["email"], pgxmock.AnyArg(), tc.body["firstName"], tc.body["lastName"], schemas.RoleUser, pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				poolMock.ExpectExec("DELETE FROM campus_schema.activation_tokens").WithArgs(pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
				poolMock.ExpectExec("INSERT INTO campus_schema.activation_tokens").
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				poolMock.ExpectCommit()
			}

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/api/users").WithJSON(tc.body).Expect().Status(tc.status)
			response.JSON().IsEqual(tc.responseBody)

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	password := "test.Password123"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userId := uuid.New()
	activatedAt := time.Now().Add(-time.Hour)

	testCases := []struct {
		name        string
		password    string
		activatedAt *time.Time
		status      int
	}{
		{"ValidLogin", password, &activatedAt, http.StatusOK},
		{"WrongPassword", "wrong.Password123", &activatedAt, http.StatusForbidden},
		{"NotActivated", password, nil, http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
			router := InitRouter(databaseMgrMock, jwtMgr, mailMgrMock, false)

			server := httptest.NewServer(router)
			defer server.Close()

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			poolMock.ExpectBegin()
			poolMock.ExpectQuery("SELECT user_id, password, role, activated_at").
				WithArgs("test@example.com").
				WillReturnRows(pgxmock.NewRows([]string{"user_id", "password", "role", "activated_at"}).
					AddRow(userId, []byte(hash), schemas.RoleUser, tc.activatedAt))
			if tc.status == http.StatusOK {
				poolMock.ExpectCommit()
			} else {
				poolMock.ExpectRollback()
			}

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/api/users/login").WithJSON(map[string]interface{}{
				"email":    "test@example.com",
				"password": tc.password,
			}).Expect().Status(tc.status)

			if tc.status == http.StatusOK {
				response.JSON().Object().ContainsKey("token").ContainsKey("refreshToken")
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestRegisterForEvent(t *testing.T) {
	eventId := uuid.New()
	userId := uuid.New()
	capacityOne := int32(1)
	capacityZero := int32(0)
	startDate := time.Now().Add(24 * time.Hour)

	testCases := []struct {
		name      string
		capacity  *int32
		count     int
		status    int
		errorCode string
	}{
		{"UnlimitedCapacity", nil, 0, http.StatusCreated, ""},
		{"SeatAvailable", &capacityOne, 0, http.StatusCreated, ""},
		{"AtCapacity", &capacityOne, 1, http.StatusBadRequest, "ERR-011"},
		{"ZeroCapacity", &capacityZero, 0, http.StatusBadRequest, "ERR-011"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
			router := InitRouter(databaseMgrMock, jwtMgr, mailMgrMock, false)

			server := httptest.NewServer(router)
			defer server.Close()

			jwtToken, _ := jwtMgr.GenerateJWT(userId.String(), "test@example.com", schemas.RoleUser, false)

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			poolMock.ExpectBegin()
			poolMock.ExpectQuery("SELECT title, capacity, start_date").WithArgs(eventId).
				WillReturnRows(pgxmock.NewRows([]string{"title", "capacity", "start_date"}).
					AddRow("Campus Concert", tc.capacity, startDate))

			if tc.capacity != nil {
				poolMock.ExpectQuery("SELECT COUNT").WithArgs(eventId).
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(tc.count))
			}

			if tc.status == http.StatusCreated {
				poolMock.ExpectExec("INSERT INTO campus_schema.registrations").
					WithArgs(pgxmock.AnyArg(), eventId, userId.String(), schemas.RegistrationStatusRegistered, pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				poolMock.ExpectCommit()
				poolMock.ExpectQuery("SELECT email, first_name").WithArgs(userId.String()).
					WillReturnRows(pgxmock.NewRows([]string{"email", "first_name"}).
						AddRow("test@example.com", "Testa"))
			} else {
				poolMock.ExpectRollback()
			}

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/api/events/"+eventId.String()+"/register").
				WithHeader("Authorization", "Bearer "+jwtToken).
				Expect().Status(tc.status)

			if tc.status == http.StatusCreated {
				response.JSON().Object().HasValue("message", "Successfully registered for event")
				response.JSON().Object().Value("registration").Object().
					HasValue("status", schemas.RegistrationStatusRegistered)
			} else {
				response.JSON().Object().Value("error").Object().HasValue("code", tc.errorCode)
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestRegisterForEventDuplicate(t *testing.T) {
	eventId := uuid.New()
	userId := uuid.New()
	startDate := time.Now().Add(24 * time.Hour)

	databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
	router := InitRouter(databaseMgrMock, jwtMgr, mailMgrMock, false)

	server := httptest.NewServer(router)
	defer server.Close()

	jwtToken, _ := jwtMgr.GenerateJWT(userId.String(), "test@example.com", schemas.RoleUser, false)

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	// The unique constraint fires on the insert, not on a prior read.
	poolMock.ExpectBegin()
	poolMock.ExpectQuery("SELECT title, capacity, start_date").WithArgs(eventId).
		WillReturnRows(pgxmock.NewRows([]string{"title", "capacity", "start_date"}).
			AddRow("Campus Concert", (*int32)(nil), startDate))
	poolMock.ExpectExec("INSERT INTO campus_schema.registrations").
		WithArgs(pgxmock.AnyArg(), eventId, userId.String(), schemas.RegistrationStatusRegistered, pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	poolMock.ExpectRollback()

	expect := httpexpect.Default(t, server.URL)
	response := expect.POST("/api/events/"+eventId.String()+"/register").
		WithHeader("Authorization", "Bearer "+jwtToken).
		Expect().Status(http.StatusBadRequest)
	response.JSON().Object().Value("error").Object().HasValue("code", "ERR-012")

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// fireRegistrations issues the registration requests concurrently and tallies
// the responses by status code and error code.
func fireRegistrations(t *testing.T, serverURL, eventId string, tokens []string) (map[int]int, map[string]int) {
	statuses := make(map[int]int)
	errorCodes := make(map[string]int)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()

			request, err := http.NewRequest(http.MethodPost, serverURL+"/api/events/"+eventId+"/register", nil)
			if err != nil {
				t.Error(err)
				return
			}
			request.Header.Set("Authorization", "Bearer "+token)

			response, err := http.DefaultClient.Do(request)
			if err != nil {
				t.Error(err)
				return
			}
			defer response.Body.Close()

			body, _ := io.ReadAll(response.Body)
			errorDTO := schemas.ErrorDTO{}
			_ = json.Unmarshal(body, &errorDTO)

			mu.Lock()
			statuses[response.StatusCode]++
			if errorDTO.Error.Code != "" {
				errorCodes[errorDTO.Error.Code]++
			}
			mu.Unlock()
		}(token)
	}
	wg.Wait()

	return statuses, errorCodes
}

// Many users race for a single seat; exactly one wins. The row lock serializes
// the capacity checks, so every loser observes the taken seat.
func TestRegisterForEventConcurrentSingleSeat(t *testing.T) {
	const attempts = 5
	eventId := uuid.New()
	capacityOne := int32(1)
	startDate := time.Now().Add(24 * time.Hour)

	databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
	router := InitRouter(databaseMgrMock, jwtMgr, mailMgrMock, false)

	server := httptest.NewServer(router)
	defer server.Close()

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
	poolMock.MatchExpectationsInOrder(false)

	for i := 0; i < attempts; i++ {
		poolMock.ExpectBegin()
		poolMock.ExpectQuery("SELECT title, capacity, start_date").WithArgs(eventId).
			WillReturnRows(pgxmock.NewRows([]string{"title", "capacity", "start_date"}).
				AddRow("Campus Concert", &capacityOne, startDate))
	}

	// The first count observed under the lock is zero; every later one sees
	// the seat taken.
	poolMock.ExpectQuery("SELECT COUNT").WithArgs(eventId).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	for i := 1; i < attempts; i++ {
		poolMock.ExpectQuery("SELECT COUNT").WithArgs(eventId).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	}

	poolMock.ExpectExec("INSERT INTO campus_schema.registrations").
		WithArgs(pgxmock.AnyArg(), eventId, pgxmock.AnyArg(), schemas.RegistrationStatusRegistered, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	poolMock.ExpectCommit()
	poolMock.ExpectQuery("SELECT email, first_name").WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"email", "first_name"}).
			AddRow("test@example.com", "Testa"))
	for i := 1; i < attempts; i++ {
		poolMock.ExpectRollback()
	}

	tokens := make([]string, attempts)
	for i := range tokens {
		tokens[i], _ = jwtMgr.GenerateJWT(uuid.New().String(), "test@example.com", schemas.RoleUser, false)
	}

	statuses, errorCodes := fireRegistrations(t, server.URL, eventId.String(), tokens)

	assert.Equal(t, 1, statuses[http.StatusCreated])
	assert.Equal(t, attempts-1, statuses[http.StatusBadRequest])
	assert.Equal(t, attempts-1, errorCodes["ERR-011"])

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// One user fires the same registration many times at once; the unique
// constraint lets exactly one insert through.
func TestRegisterForEventConcurrentDuplicates(t *testing.T) {
	const attempts = 5
	eventId := uuid.New()
	userId := uuid.New()
	startDate := time.Now().Add(24 * time.Hour)

	databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
	router := InitRouter(databaseMgrMock, jwtMgr, mailMgrMock, false)

	server := httptest.NewServer(router)
	defer server.Close()

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
	poolMock.MatchExpectationsInOrder(false)

	for i := 0; i < attempts; i++ {
		poolMock.ExpectBegin()
		poolMock.ExpectQuery("SELECT title, capacity, start_date").WithArgs(eventId).
			WillReturnRows(pgxmock.NewRows([]string{"title", "capacity", "start_date"}).
				AddRow("Campus Concert", (*int32)(nil), startDate))
	}

	poolMock.ExpectExec("INSERT INTO campus_schema.registrations").
		WithArgs(pgxmock.AnyArg(), eventId, userId.String(), schemas.RegistrationStatusRegistered, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	for i := 1; i < attempts; i++ {
		poolMock.ExpectExec("INSERT INTO campus_schema.registrations").
			WithArgs(pgxmock.AnyArg(), eventId, userId.String(), schemas.RegistrationStatusRegistered, pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	}
	poolMock.ExpectCommit()
	poolMock.ExpectQuery("SELECT email, first_name").WithArgs(userId.String()).
		WillReturnRows(pgxmock.NewRows([]string{"email", "first_name"}).
			AddRow("test@example.com", "Testa"))
	for i := 1; i < attempts; i++ {
		poolMock.ExpectRollback()
	}

	token, _ := jwtMgr.GenerateJWT(userId.String(), "test@example.com", schemas.RoleUser, false)
	tokens := make([]string, attempts)
	for i := range tokens {
		tokens[i] = token
	}

	statuses, errorCodes := fireRegistrations(t, server.URL, eventId.String(), tokens)

	assert.Equal(t, 1, statuses[http.StatusCreated])
	assert.Equal(t, attempts-1, statuses[http.StatusBadRequest])
	assert.Equal(t, attempts-1, errorCodes["ERR-012"])

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// Unregistering frees the seat for the same user to register again.
func TestRegistrationRoundTrip(t *testing.T) {
	eventId := uuid.New()
	userId := uuid.New()
	capacityOne := int32(1)
	startDate := time.Now().Add(24 * time.Hour)

	databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
	router := InitRouter(databaseMgrMock, jwtMgr, mailMgrMock, false)

	server := httptest.NewServer(router)
	defer server.Close()

	jwtToken, _ := jwtMgr.GenerateJWT(userId.String(), "test@example.com", schemas.RoleUser, false)

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	expectRegistration := func() {
		poolMock.ExpectBegin()
		poolMock.ExpectQuery("SELECT title, capacity, start_date").WithArgs(eventId).
			WillReturnRows(pgxmock.NewRows([]string{"title", "capacity", "start_date"}).
				AddRow("Campus Concert", &capacityOne, startDate))
		poolMock.ExpectQuery("SELECT COUNT").WithArgs(eventId).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
		poolMock.ExpectExec("INSERT INTO campus_schema.registrations").
			WithArgs(pgxmock.AnyArg(), eventId, userId.String(), schemas.RegistrationStatusRegistered, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		poolMock.ExpectCommit()
		poolMock.ExpectQuery("SELECT email, first_name").WithArgs(userId.String()).
			WillReturnRows(pgxmock.NewRows([]string{"email", "first_name"}).
				AddRow("test@example.com", "Testa"))
	}

	expectRegistration()
	poolMock.ExpectBegin()
	poolMock.ExpectQuery("SELECT EXISTS").WithArgs(eventId).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	poolMock.ExpectExec("DELETE FROM campus_schema.registrations").
		WithArgs(eventId, userId.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	poolMock.ExpectCommit()
	expectRegistration()

	expect := httpexpect.Default(t, server.URL)
	registerURL := "/api/events/" + eventId.String() + "/register"

	expect.POST(registerURL).WithHeader("Authorization", "Bearer "+jwtToken).
		Expect().Status(http.StatusCreated)
	expect.DELETE(registerURL).WithHeader("Authorization", "Bearer "+jwtToken).
		Expect().Status(http.StatusOK)
	expect.POST(registerURL).WithHeader("Authorization", "Bearer "+jwtToken).
		Expect().Status(http.StatusCreated)

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestRegisterForEventUnknownEvent(t *testing.T) {
	eventId := uuid.New()
	userId := uuid.New()

	databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
	router := InitRouter(databaseMgrMock, jwtMgr, mailMgrMock, false)

	server := httptest.NewServer(router)
	defer server.Close()

	jwtToken, _ := jwtMgr.GenerateJWT(userId.String(), "test@example.com", schemas.RoleUser, false)

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	poolMock.ExpectBegin()
	poolMock.ExpectQuery("SELECT title, capacity, start_date").WithArgs(eventId).
		WillReturnError(pgx.ErrNoRows)
	poolMock.ExpectRollback()

	expect := httpexpect.Default(t, server.URL)
	response := expect.POST("/api/events/"+eventId.String()+"/register").
		WithHeader("Authorization", "Bearer "+jwtToken).
		Expect().Status(http.StatusNotFound)
	response.JSON().Object().Value("error").Object().HasValue("code", "ERR-010")

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestRegisterForEventUnauthenticated(t *testing.T) {
	databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
	router := InitRouter(databaseMgrMock, jwtMgr, mailMgrMock, false)

	server := httptest.NewServer(router)
	defer server.Close()

	expect := httpexpect.Default(t, server.URL)
	response := expect.POST("/api/events/" + uuid.New().String() + "/register").
		Expect().Status(http.StatusUnauthorized)
	response.JSON().Object().Value("error").Object().HasValue("code", "ERR-014")
}

func TestUnregisterFromEvent(t *testing.T) {
	eventId := uuid.New()
	userId := uuid.New()

	testCases := []struct {
		name         string
		rowsAffected int64
		status       int
	}{
		{"Registered", 1, http.StatusOK},
		{"NotRegistered", 0, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
			router := InitRouter(databaseMgrMock, jwtMgr, mailMgrMock, false)

			server := httptest.NewServer(router)
			defer server.Close()

			jwtToken, _ := jwtMgr.GenerateJWT(userId.String(), "test@example.com", schemas.RoleUser, false)

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			poolMock.ExpectBegin()
			poolMock.ExpectQuery("SELECT EXISTS").WithArgs(eventId).
				WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
			poolMock.ExpectExec("DELETE FROM campus_schema.registrations").
				WithArgs(eventId, userId.String()).
				WillReturnResult(pgxmock.NewResult("DELETE", tc.rowsAffected))
			if tc.status == http.StatusOK {
				poolMock.ExpectCommit()
			} else {
				poolMock.ExpectRollback()
			}

			expect := httpexpect.Default(t, server.URL)
			response := expect.DELETE("/api/events/"+eventId.String()+"/register").
				WithHeader("Authorization", "Bearer "+jwtToken).
				Expect().Status(tc.status)

			if tc.status == http.StatusOK {
				response.JSON().Object().HasValue("message", "Successfully unregistered from event")
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestCreateEvent(t *testing.T) {
	userId := uuid.New()
	capacity := int32(100)

	body := map[string]interface{}{
		"title":       "Campus Concert",
		"description": "Open air concert on the main lawn.",
		"location":    "Main Lawn",
		"category":    "Music",
		"capacity":    capacity,
		"startDate":   "2026-10-01T18:00:00Z",
		"endDate":     "2026-10-01T22:00:00Z",
	}

	testCases := []struct {
		name   string
		role   schemas.Role
		status int
	}{
		{"AsOrganizer", schemas.RoleOrganizer, http.StatusCreated},
		{"AsAdmin", schemas.RoleAdmin, http.StatusCreated},
		{"AsUser", schemas.RoleUser, http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
			router := InitRouter(databaseMgrMock, jwtMgr, mailMgrMock, false)

			server := httptest.NewServer(router)
			defer server.Close()

			jwtToken, _ := jwtMgr.GenerateJWT(userId.String(), "test@example.com", tc.role, false)

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			if tc.status == http.StatusCreated {
				poolMock.ExpectBegin()
				poolMock.ExpectExec("INSERT INTO campus_schema.events").
					WithArgs(pgxmock.AnyArg(), body["title"], body["description"], body["location"],
						body["category"], pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						userId.String(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				poolMock.ExpectCommit()
			}

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/api/events").
				WithHeader("Authorization", "Bearer "+jwtToken).
				WithJSON(body).
				Expect().Status(tc.status)

			if tc.status == http.StatusCreated {
				response.JSON().Object().HasValue("title", "Campus Concert")
				response.JSON().Object().HasValue("registered", 0)
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestGetEvent(t *testing.T) {
	eventId := uuid.New()
	capacity := int32(50)
	startDate := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	endDate := time.Date(2026, 10, 1, 22, 0, 0, 0, time.UTC)

	databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)
	router := InitRouter(databaseMgrMock, jwtMgr, mailMgrMock, false)

	server := httptest.NewServer(router)
	defer server.Close()

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	poolMock.ExpectQuery("SELECT event_id, title").WithArgs(eventId).
		WillReturnRows(pgxmock.NewRows([]string{"event_id", "title", "description", "location", "category", "capacity", "start_date", "end_date", "registered"}).
			AddRow(eventId, "Campus Concert", "Open air concert.", "Main Lawn", "Music", &capacity, startDate, endDate, 12))

	expect := httpexpect.Default(t, server.URL)
	response := expect.GET("/api/events/" + eventId.String()).Expect().Status(http.StatusOK)
	response.JSON().IsEqual(map[string]interface{}{
		"eventId":     eventId.String(),
		"title":       "Campus Concert",
		"description": "Open air concert.",
		"location":    "Main Lawn",
		"category":    "Music",
		"capacity":    50,
		"registered":  12,
		"startDate":   "2026-10-01T18:00:00Z",
		"endDate":     "2026-10-01T22:00:00Z",
	})

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
