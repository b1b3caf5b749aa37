package db

// TransactionKV buffers writes on top of a KV so one executed operation
// either commits in full or leaves the underlying store untouched. Reads
// see buffered writes first.
type TransactionKV struct {
	kv      KV
	txcache map[string][]byte
	keys    []string
}

func NewTransactionKV(kv KV) *TransactionKV {
	return &TransactionKV{
		kv:      kv,
		txcache: make(map[string][]byte),
	}
}

func (t *TransactionKV) Get(key []byte) ([]byte, error) {
	if value, ok := t.txcache[string(key)]; ok {
		return cloneBytes(value), nil
	}
	return t.kv.Get(key)
}

func (t *TransactionKV) Set(key []byte, value []byte) error {
	skey := string(key)
	if _, ok := t.txcache[skey]; !ok {
		t.keys = append(t.keys, skey)
	}
	t.txcache[skey] = cloneBytes(value)
	return nil
}

// Commit flush buffered writes in first-write order
func (t *TransactionKV) Commit() error {
	for _, k := range t.keys {
		if err := t.kv.Set([]byte(k), t.txcache[k]); err != nil {
			return err
		}
	}
	t.resetTx()
	return nil
}

// Rollback discard every buffered write
func (t *TransactionKV) Rollback() {
	t.resetTx()
}

func (t *TransactionKV) resetTx() {
	t.txcache = make(map[string][]byte)
	t.keys = nil
}
