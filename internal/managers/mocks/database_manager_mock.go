package mocks

import (
	"campushub-server/internal/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockDatabaseManager is a testify mock of managers.DatabaseMgr. It hands out
// a pgxmock pool in the router tests.
type MockDatabaseManager struct {
	mock.Mock
}

func (m *MockDatabaseManager) GetPool() interfaces.PgxPoolIface {
	args := m.Called()
	return args.Get(0).(interfaces.PgxPoolIface)
}
