// Package flock provides an optional, best-effort OS-level exclusive
// lock on the database file. The spec does not require any locking —
// the core assumes a single process owns the file for its lifetime —
// but §5 explicitly allows implementers to add one, and a REPL that
// opens the same file twice by accident is a common enough mistake to
// guard against cheaply.
package flock

import (
	"errors"
	"os"
)

// ErrLocked is returned when the file is already locked by another
// process.
var ErrLocked = errors.New("flock: database file is already locked by another process")

// Lock acquires a non-blocking exclusive lock on f. It returns
// ErrLocked if another process already holds it.
func Lock(f *os.File) error {
	return lockFile(f)
}

// Unlock releases a lock previously acquired with Lock.
func Unlock(f *os.File) error {
	return unlockFile(f)
}
