// Package account implements the balance ledger the wager executor moves
// value through. One DB type serves both asset kinds: the native coin and
// any fungible token, distinguished only by the storage key prefix.
package account

import (
	"fmt"
	"strings"

	log "github.com/inconshreveable/log15"

	dbm "github.com/easywager/easywager/common/db"
	"github.com/easywager/easywager/types"
)

var alog = log.New("module", "account")

// CoinsSymbol the native coin symbol
const CoinsSymbol = "ewc"

// DB the balance book for one asset kind
type DB struct {
	db               dbm.KV
	accountKeyPrefix []byte
	execer           string
	symbol           string
}

// NewCoinsAccount the native coin ledger
func NewCoinsAccount() *DB {
	return newAccountDB(symbolPrefix("coins", CoinsSymbol))
}

// NewTokenAccount the ledger for one fungible token kind
func NewTokenAccount(symbol string) (*DB, error) {
	if symbol == "" || strings.ContainsRune(symbol, '-') {
		return nil, types.ErrSymbolNotAllow
	}
	acc := newAccountDB(symbolPrefix("token", symbol))
	acc.execer = "token"
	acc.symbol = symbol
	return acc, nil
}

func newAccountDB(prefix string) *DB {
	acc := &DB{}
	acc.accountKeyPrefix = []byte(prefix)
	return acc
}

func symbolPrefix(execer, symbol string) string {
	return fmt.Sprintf("mavl-%s-%s-", execer, symbol)
}

// SetDB bind the ledger to a statedb; returns acc for chaining
func (acc *DB) SetDB(db dbm.KV) *DB {
	acc.db = db
	return acc
}

// Symbol the asset kind this ledger serves, "" for the native coin
func (acc *DB) Symbol() string {
	return acc.symbol
}

// LoadAccount missing accounts read as zero balance
func (acc *DB) LoadAccount(addr string) *types.Account {
	value, err := acc.db.Get(acc.AccountKey(addr))
	if err != nil {
		return &types.Account{Addr: addr}
	}
	var acc1 types.Account
	err = types.Decode(value, &acc1)
	if err != nil {
		panic(err) // stored account data is corrupt
	}
	return &acc1
}

// CheckTransfer preflight a transfer without mutating anything
func (acc *DB) CheckTransfer(from, to string, amount int64) error {
	if !types.CheckAmount(amount) {
		return types.ErrAmount
	}
	accFrom := acc.LoadAccount(from)
	if accFrom.GetBalance()-amount < 0 {
		return types.ErrNoBalance
	}
	return nil
}

// Transfer move amount from one address to another, producing the KV set
// and transfer logs for the enclosing receipt
func (acc *DB) Transfer(from, to string, amount int64) (*types.Receipt, error) {
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	accFrom := acc.LoadAccount(from)
	accTo := acc.LoadAccount(to)
	if accFrom.Addr == accTo.Addr {
		return nil, types.ErrSendSameToRecv
	}
	if accFrom.GetBalance()-amount < 0 {
		return nil, types.ErrNoBalance
	}
	copyFrom := *accFrom
	copyTo := *accTo

	newBalanceTo, err := types.SafeAdd(accTo.GetBalance(), amount)
	if err != nil {
		return nil, err
	}
	accFrom.Balance = accFrom.GetBalance() - amount
	accTo.Balance = newBalanceTo

	receiptFrom := &types.ReceiptAccountTransfer{Prev: &copyFrom, Current: accFrom}
	receiptTo := &types.ReceiptAccountTransfer{Prev: &copyTo, Current: accTo}

	acc.SaveAccount(accFrom)
	acc.SaveAccount(accTo)
	return acc.transferReceipt(accFrom, accTo, receiptFrom, receiptTo), nil
}

// Deposit credit freshly issued balance to addr; genesis and test funding only
func (acc *DB) Deposit(addr string, amount int64) (*types.Receipt, error) {
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	acc1 := acc.LoadAccount(addr)
	copyAcc := *acc1
	newBalance, err := types.SafeAdd(acc1.GetBalance(), amount)
	if err != nil {
		return nil, err
	}
	acc1.Balance = newBalance
	receipt := &types.ReceiptAccountTransfer{Prev: &copyAcc, Current: acc1}
	acc.SaveAccount(acc1)
	return &types.Receipt{
		Ty: types.ExecOk,
		KV: acc.GetKVSet(acc1),
		Logs: []*types.ReceiptLog{
			{Ty: types.TyLogTransfer, Log: types.Encode(receipt)},
		},
	}, nil
}

func (acc *DB) transferReceipt(accFrom, accTo *types.Account, receiptFrom, receiptTo *types.ReceiptAccountTransfer) *types.Receipt {
	log1 := &types.ReceiptLog{Ty: types.TyLogTransfer, Log: types.Encode(receiptFrom)}
	log2 := &types.ReceiptLog{Ty: types.TyLogTransfer, Log: types.Encode(receiptTo)}
	kv := acc.GetKVSet(accFrom)
	kv = append(kv, acc.GetKVSet(accTo)...)
	return &types.Receipt{
		Ty:   types.ExecOk,
		KV:   kv,
		Logs: []*types.ReceiptLog{log1, log2},
	}
}

// SaveAccount write the account through the bound statedb
func (acc *DB) SaveAccount(acc1 *types.Account) {
	set := acc.GetKVSet(acc1)
	for i := 0; i < len(set); i++ {
		err := acc.db.Set(set[i].Key, set[i].Value)
		if err != nil {
			panic(err)
		}
	}
}

// GetKVSet the statedb mutations that persist acc1
func (acc *DB) GetKVSet(acc1 *types.Account) (kvset []*types.KeyValue) {
	value := types.Encode(acc1)
	kvset = append(kvset, &types.KeyValue{
		Key:   acc.AccountKey(acc1.Addr),
		Value: value,
	})
	return kvset
}

// AccountKey the statedb key of an address in this ledger
func (acc *DB) AccountKey(address string) (key []byte) {
	key = append(key, acc.accountKeyPrefix...)
	key = append(key, []byte(address)...)
	return key
}
