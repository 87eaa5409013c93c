package mocks

import "github.com/stretchr/testify/mock"

// MockMailManager is a testify mock of managers.MailMgr.
type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendActivationMail(email, firstName, token string) error {
	args := m.Called(email, firstName, token)
	return args.Error(0)
}

func (m *MockMailManager) SendPasswordResetMail(email, firstName, token string) error {
	args := m.Called(email, firstName, token)
	return args.Error(0)
}

func (m *MockMailManager) SendRegistrationConfirmationMail(email, firstName, eventTitle, eventDate string) error {
	args := m.Called(email, firstName, eventTitle, eventDate)
	return args.Error(0)
}
