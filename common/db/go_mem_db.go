package db

import (
	"sort"
	"strings"
	"sync"
)

const memDBBackendStr = "memdb"

func init() {
	creator := func(name string, dir string, cache int) (DB, error) {
		return NewGoMemDB(name, dir, cache)
	}
	registerDBCreator(memDBBackendStr, creator, false)
}

// GoMemDB in-memory backend for tests and sandboxes
type GoMemDB struct {
	db   map[string][]byte
	lock sync.RWMutex
}

func NewGoMemDB(name string, dir string, cache int) (*GoMemDB, error) {
	return &GoMemDB{db: make(map[string][]byte)}, nil
}

func (db *GoMemDB) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if entry, ok := db.db[string(key)]; ok {
		return cloneBytes(entry), nil
	}
	return nil, ErrNotFoundInDb
}

func (db *GoMemDB) Set(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	db.db[string(key)] = cloneBytes(value)
	return nil
}

func (db *GoMemDB) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	delete(db.db, string(key))
	return nil
}

func (db *GoMemDB) List(prefix, key []byte, count, direction int32) ([][]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	var keys []string
	for k := range db.db {
		if strings.HasPrefix(k, string(prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if direction == ListDESC {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}
	var values [][]byte
	started := key == nil
	for _, k := range keys {
		if !started {
			if k == string(key) {
				started = true
			}
			continue
		}
		values = append(values, cloneBytes(db.db[k]))
		if count > 0 && int32(len(values)) >= count {
			break
		}
	}
	return values, nil
}

func (db *GoMemDB) Close() {
}

func (db *GoMemDB) NewBatch(sync bool) Batch {
	return &memBatch{db: db}
}

type memBatch struct {
	db     *GoMemDB
	writes []kvPair
}

type kvPair struct {
	key, value []byte
	del        bool
}

func (b *memBatch) Set(key, value []byte) {
	b.writes = append(b.writes, kvPair{cloneBytes(key), cloneBytes(value), false})
}

func (b *memBatch) Delete(key []byte) {
	b.writes = append(b.writes, kvPair{cloneBytes(key), nil, true})
}

func (b *memBatch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()

	for _, w := range b.writes {
		if w.del {
			delete(b.db.db, string(w.key))
			continue
		}
		b.db.db[string(w.key)] = w.value
	}
	return nil
}
