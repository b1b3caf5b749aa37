package db

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFoundInDb the key is absent; callers map this to domain errors
var ErrNotFoundInDb = errors.New("ErrNotFoundInDb")

// list direction
const (
	ListDESC = int32(0)
	ListASC  = int32(1)
)

// KV the statedb surface the executor mutates through
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte) error
}

// Lister paged prefix scans over the local index db
type Lister interface {
	List(prefix, key []byte, count, direction int32) ([][]byte, error)
}

// KVDB the local db surface: point access plus listing
type KVDB interface {
	KV
	Lister
}

// DB a full storage backend
type DB interface {
	KVDB
	Delete(key []byte) error
	NewBatch(sync bool) Batch
	Close()
}

// Batch grouped writes, committed with Write
type Batch interface {
	Set(key, value []byte)
	Delete(key []byte)
	Write() error
}

type dbCreator func(name string, dir string, cache int) (DB, error)

var backends = map[string]dbCreator{}

func registerDBCreator(backend string, creator dbCreator, force bool) {
	_, ok := backends[backend]
	if !force && ok {
		return
	}
	backends[backend] = creator
}

// NewDB open a backend by name; unknown backends are a setup error
func NewDB(name string, backend string, dir string, cache int) (DB, error) {
	creator, ok := backends[backend]
	if !ok {
		return nil, fmt.Errorf("unknown db backend %q", backend)
	}
	db, err := creator(name, dir, cache)
	if err != nil {
		return nil, errors.Wrapf(err, "initializing db backend %q", backend)
	}
	return db, nil
}
