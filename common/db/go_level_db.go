package db

import (
	"path"

	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	lvlerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var llog = log.New("module", "db.goleveldb")

const (
	levelDBBackendStr   = "leveldb"
	goLevelDBBackendStr = "goleveldb"
)

func init() {
	creator := func(name string, dir string, cache int) (DB, error) {
		return NewGoLevelDB(name, dir, cache)
	}
	registerDBCreator(levelDBBackendStr, creator, false)
	registerDBCreator(goLevelDBBackendStr, creator, false)
}

// GoLevelDB leveldb backed DB
type GoLevelDB struct {
	db *leveldb.DB
}

// NewGoLevelDB open or recover the leveldb at dir/name.db
func NewGoLevelDB(name string, dir string, cache int) (*GoLevelDB, error) {
	dbPath := path.Join(dir, name+".db")
	if cache <= 0 {
		cache = 64
	}
	handles := cache
	db, err := leveldb.OpenFile(dbPath, &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if _, corrupted := err.(*lvlerrors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(dbPath, nil)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb %s", dbPath)
	}
	return &GoLevelDB{db: db}, nil
}

func (db *GoLevelDB) Get(key []byte) ([]byte, error) {
	res, err := db.db.Get(key, nil)
	if err != nil {
		if err == lvlerrors.ErrNotFound {
			return nil, ErrNotFoundInDb
		}
		llog.Error("Get", "error", err)
		return nil, err
	}
	return res, nil
}

func (db *GoLevelDB) Set(key []byte, value []byte) error {
	err := db.db.Put(key, value, nil)
	if err != nil {
		llog.Error("Set", "error", err)
		return err
	}
	return nil
}

func (db *GoLevelDB) Delete(key []byte) error {
	err := db.db.Delete(key, nil)
	if err != nil {
		llog.Error("Delete", "error", err)
		return err
	}
	return nil
}

// List paged prefix scan. key == nil starts from the prefix boundary,
// otherwise iteration resumes just past key in the given direction.
func (db *GoLevelDB) List(prefix, key []byte, count, direction int32) ([][]byte, error) {
	it := db.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()

	var values [][]byte
	if direction == ListASC {
		ok := it.First()
		if key != nil {
			ok = it.Seek(key)
			if ok && string(it.Key()) == string(key) {
				ok = it.Next()
			}
		}
		for ; ok; ok = it.Next() {
			values = append(values, cloneBytes(it.Value()))
			if count > 0 && int32(len(values)) >= count {
				break
			}
		}
	} else {
		ok := it.Last()
		if key != nil {
			if it.Seek(key) {
				ok = it.Prev()
			} else {
				ok = it.Last()
			}
		}
		for ; ok; ok = it.Prev() {
			values = append(values, cloneBytes(it.Value()))
			if count > 0 && int32(len(values)) >= count {
				break
			}
		}
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return values, nil
}

func (db *GoLevelDB) Close() {
	if err := db.db.Close(); err != nil {
		llog.Error("Close", "error", err)
	}
}

// NewBatch batch writes; sync forces fsync on Write
func (db *GoLevelDB) NewBatch(sync bool) Batch {
	return &goLevelDBBatch{db: db, batch: new(leveldb.Batch), wop: &opt.WriteOptions{Sync: sync}}
}

type goLevelDBBatch struct {
	db    *GoLevelDB
	batch *leveldb.Batch
	wop   *opt.WriteOptions
}

func (b *goLevelDBBatch) Set(key, value []byte) {
	b.batch.Put(key, value)
}

func (b *goLevelDBBatch) Delete(key []byte) {
	b.batch.Delete(key)
}

func (b *goLevelDBBatch) Write() error {
	err := b.db.db.Write(b.batch, b.wop)
	if err != nil {
		llog.Error("Write", "error", err)
	}
	return err
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
