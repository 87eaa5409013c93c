// Package managers holds the long-lived collaborators of the server: the
// database pool, the JWT key handling and the mail transport.
package managers

import (
	"campushub-server/internal/interfaces"

	log "github.com/sirupsen/logrus"
)

// DatabaseMgr defines the interface for database management.
// It provides methods for interacting with the database connection pool.
type DatabaseMgr interface {
	GetPool() interfaces.PgxPoolIface
}

// DatabaseManager is responsible for managing the database connection pool.
// It is constructed once at startup and injected into the handlers; nothing
// reaches for a global pool.
type DatabaseManager struct {
	Pool interfaces.PgxPoolIface
}

// GetPool returns the database connection pool managed by the DatabaseManager.
func (dbMgr *DatabaseManager) GetPool() interfaces.PgxPoolIface {
	return dbMgr.Pool
}

// NewDatabaseManager creates a new DatabaseManager with the provided
// connection pool.
func NewDatabaseManager(pool interfaces.PgxPoolIface) DatabaseMgr {
	log.Info("Initializing database manager")
	return &DatabaseManager{Pool: pool}
}
