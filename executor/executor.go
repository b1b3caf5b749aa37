// Package executor implements the escrow wager settlement engine: the Game
// state machine and the five operations that gate every fund movement.
package executor

import (
	lru "github.com/hashicorp/golang-lru"
	log "github.com/inconshreveable/log15"

	dbm "github.com/easywager/easywager/common/db"
	"github.com/easywager/easywager/types"
)

var wlog = log.New("module", "execs."+types.WagerX)

// Wager the executor. Each Exec call runs one operation atomically against
// the statedb: the whole KV set commits on success, nothing commits on error.
type Wager struct {
	statedb   dbm.KV
	localdb   dbm.DB
	cfg       *types.Config
	height    int64
	blocktime int64
	gameCache *lru.Cache
}

// New wire an executor over a statedb and a local index db
func New(statedb dbm.KV, localdb dbm.DB, cfg *types.Config) *Wager {
	if cfg == nil {
		cfg = types.DefaultConfig()
	}
	cache, _ := lru.New(1024)
	return &Wager{
		statedb:   statedb,
		localdb:   localdb,
		cfg:       cfg,
		gameCache: cache,
	}
}

// GetDriverName fixed executor name
func (w *Wager) GetDriverName() string {
	return types.WagerX
}

// SetEnv height orders the local indexes; blocktime is the trusted clock,
// read once per operation
func (w *Wager) SetEnv(height, blocktime int64) {
	w.height = height
	w.blocktime = blocktime
}

// Exec decode the action and run the matching handler inside a write buffer.
// Any error discards every buffered mutation.
func (w *Wager) Exec(tx *types.Transaction, index int) (*types.Receipt, error) {
	var action types.WagerAction
	err := types.Decode(tx.Payload, &action)
	if err != nil {
		return nil, types.ErrInvalidParam
	}
	cache := dbm.NewTransactionKV(w.statedb)
	actiondb := NewAction(w, cache, tx, index)

	var receipt *types.Receipt
	if action.Ty == types.WagerActionCreate && action.GetCreate() != nil {
		receipt, err = actiondb.GameCreate(action.GetCreate())
	} else if action.Ty == types.WagerActionJoin && action.GetJoin() != nil {
		receipt, err = actiondb.GameJoin(action.GetJoin())
	} else if action.Ty == types.WagerActionResolve && action.GetResolve() != nil {
		receipt, err = actiondb.GameResolve(action.GetResolve())
	} else if action.Ty == types.WagerActionCancel && action.GetCancel() != nil {
		receipt, err = actiondb.GameCancel(action.GetCancel())
	} else if action.Ty == types.WagerActionUpdateResolver && action.GetUpdateResolver() != nil {
		receipt, err = actiondb.GameUpdateResolver(action.GetUpdateResolver())
	} else {
		err = types.ErrActionNotSupport
	}
	if err != nil {
		cache.Rollback()
		return nil, err
	}
	if err := cache.Commit(); err != nil {
		return nil, err
	}
	return receipt, nil
}

// ExecLocal derive the local index mutations from a committed receipt
func (w *Wager) ExecLocal(receipt *types.Receipt) (*types.LocalDBSet, error) {
	set := &types.LocalDBSet{}
	if receipt == nil || receipt.Ty != types.ExecOk {
		return set, nil
	}
	for _, item := range receipt.Logs {
		if item.Ty != types.TyLogWagerStatus {
			continue
		}
		var r types.ReceiptWagerStatus
		if err := types.Decode(item.Log, &r); err != nil {
			panic(err) // committed log data is corrupt
		}
		set.KV = append(set.KV, w.updateIndex(&r)...)
	}
	return set, nil
}

// ExecDelLocal invert ExecLocal when a committed operation is rolled back
func (w *Wager) ExecDelLocal(receipt *types.Receipt) (*types.LocalDBSet, error) {
	set := &types.LocalDBSet{}
	if receipt == nil || receipt.Ty != types.ExecOk {
		return set, nil
	}
	for _, item := range receipt.Logs {
		if item.Ty != types.TyLogWagerStatus {
			continue
		}
		var r types.ReceiptWagerStatus
		if err := types.Decode(item.Log, &r); err != nil {
			panic(err) // committed log data is corrupt
		}
		set.KV = append(set.KV, w.rollbackIndex(&r)...)
	}
	return set, nil
}

// WriteLocal apply a LocalDBSet to the local db; nil values delete
func (w *Wager) WriteLocal(set *types.LocalDBSet) error {
	batch := w.localdb.NewBatch(false)
	for _, kv := range set.KV {
		if kv.Value == nil {
			batch.Delete(kv.Key)
			continue
		}
		batch.Set(kv.Key, kv.Value)
	}
	return batch.Write()
}

// indexAddrs which participant addresses own an index entry at a status.
// The joiner only appears once the game has left Open.
func indexAddrs(status int32, r *types.ReceiptWagerStatus) []string {
	addrs := []string{r.CreateAddr}
	if status != types.GameStatusOpen && r.JoinAddr != "" {
		addrs = append(addrs, r.JoinAddr)
	}
	return addrs
}

func (w *Wager) updateIndex(r *types.ReceiptWagerStatus) (kvs []*types.KeyValue) {
	kvs = append(kvs, addGameStatusIndex(r.Status, r.GameID, r.Index))
	for _, addr := range indexAddrs(r.Status, r) {
		kvs = append(kvs, addGameAddrIndex(r.Status, r.GameID, addr, r.Index))
	}
	if r.PrevStatus > 0 {
		kvs = append(kvs, delGameStatusIndex(r.PrevStatus, r.PrevIndex))
		for _, addr := range indexAddrs(r.PrevStatus, r) {
			kvs = append(kvs, delGameAddrIndex(r.PrevStatus, addr, r.PrevIndex))
		}
	}
	return kvs
}

func (w *Wager) rollbackIndex(r *types.ReceiptWagerStatus) (kvs []*types.KeyValue) {
	kvs = append(kvs, delGameStatusIndex(r.Status, r.Index))
	for _, addr := range indexAddrs(r.Status, r) {
		kvs = append(kvs, delGameAddrIndex(r.Status, addr, r.Index))
	}
	if r.PrevStatus > 0 {
		kvs = append(kvs, addGameStatusIndex(r.PrevStatus, r.GameID, r.PrevIndex))
		for _, addr := range indexAddrs(r.PrevStatus, r) {
			kvs = append(kvs, addGameAddrIndex(r.PrevStatus, r.GameID, addr, r.PrevIndex))
		}
	}
	return kvs
}
