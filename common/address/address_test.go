package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubKeyToAddress(t *testing.T) {
	addr := PubKeyToAddress([]byte("test public key")).String()
	require.NotEmpty(t, addr)
	assert.NoError(t, CheckAddress(addr))
	// stable for the same input
	assert.Equal(t, addr, PubKeyToAddress([]byte("test public key")).String())
}

func TestExecAddress(t *testing.T) {
	addr := ExecAddress("wager")
	assert.NoError(t, CheckAddress(addr))
	// cached path returns the identical value
	assert.Equal(t, addr, ExecAddress("wager"))
	assert.NotEqual(t, addr, ExecAddress("coins"))
}

func TestGameAddress(t *testing.T) {
	creator := PubKeyToAddress([]byte("creator")).String()
	addr1 := GameAddress(creator, 0)
	addr2 := GameAddress(creator, 0)
	assert.Equal(t, addr1, addr2)
	assert.NoError(t, CheckAddress(addr1))

	// distinct per nonce and per creator
	assert.NotEqual(t, addr1, GameAddress(creator, 1))
	other := PubKeyToAddress([]byte("other")).String()
	assert.NotEqual(t, addr1, GameAddress(other, 0))
}

func TestVaultAddress(t *testing.T) {
	creator := PubKeyToAddress([]byte("creator")).String()
	game := GameAddress(creator, 7)
	vault := VaultAddress(game, "usdt")
	assert.NoError(t, CheckAddress(vault))
	assert.Equal(t, vault, VaultAddress(game, "usdt"))
	assert.NotEqual(t, vault, VaultAddress(game, "usdc"))
	assert.NotEqual(t, vault, game)
}

func TestCheckAddress(t *testing.T) {
	assert.Error(t, CheckAddress(""))
	assert.Error(t, CheckAddress("not-base58-0OIl"))
	addr := PubKeyToAddress([]byte("x")).String()
	require.NoError(t, CheckAddress(addr))
	// flip the tail to break the checksum
	broken := addr[:len(addr)-1] + "1"
	if broken == addr {
		broken = addr[:len(addr)-1] + "2"
	}
	assert.Error(t, CheckAddress(broken))
}
