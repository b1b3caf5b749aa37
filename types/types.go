package types

import (
	"encoding/json"
)

// exec result of a receipt
const (
	ExecErr = int32(iota)
	ExecPack
	ExecOk
)

// Coin 1e8 smallest units per whole native coin
const Coin = int64(1e8)

// MaxCoin the largest amount a single transfer may carry
const MaxCoin = int64(1e8) * 1e9

// MaxTxsPerBlock used to build the height*offset+index ordering key
const MaxTxsPerBlock = int64(100000)

// KeyValue one statedb or localdb mutation
type KeyValue struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

// ReceiptLog one typed event entry inside a receipt
type ReceiptLog struct {
	Ty  int64  `json:"ty"`
	Log []byte `json:"log"`
}

// Receipt the full effect of one executed operation: the KV set to commit
// and the logs for off-chain observers
type Receipt struct {
	Ty   int32         `json:"ty"`
	KV   []*KeyValue   `json:"kv"`
	Logs []*ReceiptLog `json:"logs"`
}

// LocalDBSet mutations for the local index db, derived from receipt logs
type LocalDBSet struct {
	KV []*KeyValue `json:"kv"`
}

// Account balance of one address for one asset kind
type Account struct {
	Currency int32  `json:"currency"`
	Balance  int64  `json:"balance"`
	Frozen   int64  `json:"frozen"`
	Addr     string `json:"addr"`
}

func (acc *Account) GetBalance() int64 {
	if acc == nil {
		return 0
	}
	return acc.Balance
}

// CheckAmount amount must stay inside (0, MaxCoin]
func CheckAmount(amount int64) bool {
	if amount <= 0 || amount > MaxCoin {
		return false
	}
	return true
}

// Encode marshal a value for statedb storage or a receipt log.
// The codec sits behind this seam so it can be swapped wholesale.
func Encode(data interface{}) []byte {
	b, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return b
}

// Decode unmarshal a stored value
func Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
