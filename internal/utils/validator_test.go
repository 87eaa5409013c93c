package utils

import (
	"testing"

	"campushub-server/internal/schemas"

	"github.com/stretchr/testify/assert"
)

func TestPasswordValidation(t *testing.T) {
	validate := GetValidator().Validate

	testCases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"Valid", "test.Password123", true},
		{"NoUpperCase", "test.password123", false},
		{"NoLowerCase", "TEST.PASSWORD123", false},
		{"NoNumber", "test.Password", false},
		{"NoSpecialChar", "testPassword123", false},
		{"TooShort", "t.P1", false},
		{"NonASCII", "test.Pässword123", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			request := schemas.SignupRequest{
				Email:     "test@example.com",
				Password:  tc.password,
				FirstName: "Testa",
			}

			err := validate.Struct(request)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSanitizeData(t *testing.T) {
	request := &schemas.CreateEventRequest{
		Title:       `Campus <script>alert("x")</script> Concert`,
		Description: "Open air <b>concert</b>.",
		Location:    "Main Lawn",
		StartDate:   "2026-10-01T18:00:00Z",
		EndDate:     "2026-10-01T22:00:00Z",
	}

	err := GetValidator().SanitizeData(request)
	assert.NoError(t, err)
	assert.Equal(t, "Campus  Concert", request.Title)
	assert.Equal(t, "Open air concert.", request.Description)
	assert.Equal(t, "Main Lawn", request.Location)
}

func TestRFC3339Validation(t *testing.T) {
	validate := GetValidator().Validate

	request := schemas.CreateEventRequest{
		Title:       "Campus Concert",
		Description: "Open air concert.",
		Location:    "Main Lawn",
		StartDate:   "01.10.2026 18:00",
		EndDate:     "2026-10-01T22:00:00Z",
	}
	assert.Error(t, validate.Struct(request))

	request.StartDate = "2026-10-01T18:00:00Z"
	assert.NoError(t, validate.Struct(request))
}

func TestRoleValidation(t *testing.T) {
	validate := GetValidator().Validate

	request := schemas.ChangeRoleRequest{Role: "ORGANIZER"}
	assert.NoError(t, validate.Struct(request))

	request.Role = "ROOT"
	assert.Error(t, validate.Struct(request))
}
