// Package isentadb is the root facade: it wires a Database, a Catalog,
// and a QueryEngine into a single Session and exposes the one
// entrypoint every caller — the REPL today, anything else tomorrow —
// drives a line of input through.
package isentadb

import (
	"log"

	"github.com/google/uuid"

	"github.com/SentinelIS/IsentaDB/internal/config"
	"github.com/SentinelIS/IsentaDB/internal/engine"
	"github.com/SentinelIS/IsentaDB/internal/flock"
	"github.com/SentinelIS/IsentaDB/internal/storage"
)

// Session is an open database plus the in-memory catalog loaded from it
// and the query engine that mutates both.
type Session struct {
	ID      string
	Path    string
	db      *storage.Database
	catalog *storage.Catalog
	engine  *engine.QueryEngine
	locked  bool
}

// Open opens (creating if necessary) the database file at path, loads
// its catalog, and returns a ready-to-use Session. A nil cfg behaves
// like config.Default().
func Open(path string, cfg *config.Config) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}

	locked := false
	if cfg.Lock {
		if err := flock.Lock(db.File()); err != nil {
			db.Close()
			return nil, err
		}
		locked = true
	}

	catalog, err := db.LoadCatalog()
	if err != nil {
		if locked {
			flock.Unlock(db.File())
		}
		db.Close()
		return nil, err
	}

	id := uuid.NewString()
	log.Printf("isentadb[%s]: opened %s (%d tables)", id, path, len(catalog.TableNames()))

	return &Session{
		ID:      id,
		Path:    path,
		db:      db,
		catalog: catalog,
		engine:  engine.New(db, catalog),
		locked:  locked,
	}, nil
}

// Close releases any held lock and closes the underlying file.
func (s *Session) Close() error {
	if s.locked {
		flock.Unlock(s.db.File())
	}
	return s.db.Close()
}

// ExecuteLine parses one line of input and executes the resulting
// Command. It is the single entrypoint shared by every caller driving
// this session — the REPL and one-shot CLI mode both go through it. The
// parsed Command is returned alongside the Result so a caller can decide
// how to render output without re-parsing.
func (s *Session) ExecuteLine(line string) (engine.Command, *engine.Result, error) {
	cmd := engine.Parse(line)
	res, err := s.engine.Execute(cmd)
	return cmd, res, err
}

// TableNames returns the names of every table currently in the catalog.
func (s *Session) TableNames() []string {
	return s.catalog.TableNames()
}
