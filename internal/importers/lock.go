package importers

import (
	"github.com/gofrs/flock"
)

// Locker guards imports across processes sharing one database.
type Locker interface {
	TryLock() (bool, error)
	Unlock() error
}

// NewFileLock returns a lock file living next to the database file, so a CLI
// import and a running server never merge into the library at the same time.
func NewFileLock(databasePath string) *flock.Flock {
	return flock.New(databasePath + ".import.lock")
}
