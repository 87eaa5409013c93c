package managers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Outside production mode no mail leaves the process, so all sends succeed
// without network access.
func TestMailManagerDevelopmentMode(t *testing.T) {
	mailMgr := NewMailManager("mail.example.com", "dummy-key", false)

	assert.NoError(t, mailMgr.SendActivationMail("test@example.com", "Testa", "123456"))
	assert.NoError(t, mailMgr.SendPasswordResetMail("test@example.com", "Testa", "abcdef"))
	assert.NoError(t, mailMgr.SendRegistrationConfirmationMail("test@example.com", "Testa",
		"Campus Concert", "2026-10-01T18:00:00Z"))
}
