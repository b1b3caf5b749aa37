package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easywager/easywager/common/db"
	"github.com/easywager/easywager/types"
)

var (
	addr1 = "14ZTV2wHG3uPHnA5cBJmNxAxxvbzS7Z5mE"
	addr2 = "24ZTV2wHG3uPHnA5cBJmNxAxxvbzS7Z5mE"
	addr3 = "34ZTV2wHG3uPHnA5cBJmNxAxxvbzS7Z5mE"
)

func genAccDB(t *testing.T) (*DB, *DB) {
	accCoin := NewCoinsAccount()
	statedb, err := db.NewGoMemDB("gomemdb", "test", 128)
	require.NoError(t, err)
	accCoin.SetDB(statedb)

	accToken, err := NewTokenAccount("usdt")
	require.NoError(t, err)
	statedb2, err := db.NewGoMemDB("gomemdb", "test", 128)
	require.NoError(t, err)
	accToken.SetDB(statedb2)

	return accCoin, accToken
}

func (acc *DB) genAccData() {
	account := &types.Account{Balance: 1000 * types.Coin, Addr: addr1}
	acc.SaveAccount(account)

	account.Balance = 900 * types.Coin
	account.Addr = addr2
	acc.SaveAccount(account)
}

func TestLoadAccount(t *testing.T) {
	accCoin, _ := genAccDB(t)
	accCoin.genAccData()

	acc := accCoin.LoadAccount(addr1)
	assert.Equal(t, 1000*types.Coin, acc.GetBalance())

	// missing accounts read as zero
	acc = accCoin.LoadAccount(addr3)
	assert.Equal(t, int64(0), acc.GetBalance())
	assert.Equal(t, addr3, acc.Addr)
}

func TestCheckTransfer(t *testing.T) {
	accCoin, accToken := genAccDB(t)
	accCoin.genAccData()
	accToken.genAccData()

	assert.NoError(t, accCoin.CheckTransfer(addr1, addr2, 10*types.Coin))
	assert.Equal(t, types.ErrNoBalance, accCoin.CheckTransfer(addr1, addr2, 1001*types.Coin))
	assert.Equal(t, types.ErrAmount, accCoin.CheckTransfer(addr1, addr2, 0))
	assert.Equal(t, types.ErrAmount, accCoin.CheckTransfer(addr1, addr2, -1))
	assert.NoError(t, accToken.CheckTransfer(addr2, addr1, 900*types.Coin))
}

func TestTransfer(t *testing.T) {
	accCoin, _ := genAccDB(t)
	accCoin.genAccData()

	receipt, err := accCoin.Transfer(addr1, addr2, 100*types.Coin)
	require.NoError(t, err)
	assert.Equal(t, types.ExecOk, receipt.Ty)
	assert.Len(t, receipt.Logs, 2)
	assert.Len(t, receipt.KV, 2)
	assert.Equal(t, 900*types.Coin, accCoin.LoadAccount(addr1).GetBalance())
	assert.Equal(t, 1000*types.Coin, accCoin.LoadAccount(addr2).GetBalance())

	_, err = accCoin.Transfer(addr1, addr2, 901*types.Coin)
	assert.Equal(t, types.ErrNoBalance, err)
	_, err = accCoin.Transfer(addr1, addr1, 1*types.Coin)
	assert.Equal(t, types.ErrSendSameToRecv, err)
}

func TestTransferIsolatedPerAsset(t *testing.T) {
	statedb, err := db.NewGoMemDB("gomemdb", "test", 128)
	require.NoError(t, err)

	accCoin := NewCoinsAccount().SetDB(statedb)
	accToken, err := NewTokenAccount("usdt")
	require.NoError(t, err)
	accToken.SetDB(statedb)

	accCoin.SaveAccount(&types.Account{Balance: 500, Addr: addr1})
	accToken.SaveAccount(&types.Account{Balance: 70, Addr: addr1})

	// the same address holds independent balances per asset kind
	assert.Equal(t, int64(500), accCoin.LoadAccount(addr1).GetBalance())
	assert.Equal(t, int64(70), accToken.LoadAccount(addr1).GetBalance())

	_, err = accToken.Transfer(addr1, addr2, 70)
	require.NoError(t, err)
	assert.Equal(t, int64(500), accCoin.LoadAccount(addr1).GetBalance())
	assert.Equal(t, int64(0), accToken.LoadAccount(addr1).GetBalance())
}

func TestDeposit(t *testing.T) {
	accCoin, _ := genAccDB(t)

	receipt, err := accCoin.Deposit(addr3, 42)
	require.NoError(t, err)
	assert.Equal(t, types.ExecOk, receipt.Ty)
	assert.Equal(t, int64(42), accCoin.LoadAccount(addr3).GetBalance())

	_, err = accCoin.Deposit(addr3, 0)
	assert.Equal(t, types.ErrAmount, err)
}

func TestNewTokenAccount(t *testing.T) {
	_, err := NewTokenAccount("")
	assert.Equal(t, types.ErrSymbolNotAllow, err)
	_, err = NewTokenAccount("bad-symbol")
	assert.Equal(t, types.ErrSymbolNotAllow, err)

	acc, err := NewTokenAccount("usdt")
	require.NoError(t, err)
	assert.Equal(t, "usdt", acc.Symbol())
}
