package address

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/decred/base58"
	lru "github.com/hashicorp/golang-lru"

	"github.com/easywager/easywager/common"
)

var addrSeed = []byte("address seed bytes for public key")

var (
	execAddressCache  *lru.Cache
	gameAddressCache  *lru.Cache
	checkAddressCache *lru.Cache
)

// MaxExecNameLength executor names longer than this are a programming error
const MaxExecNameLength = 100

func init() {
	execAddressCache, _ = lru.New(1024)
	gameAddressCache, _ = lru.New(10240)
	checkAddressCache, _ = lru.New(10240)
}

// Address the decoded form of a base58 address
type Address struct {
	Version byte
	Hash160 [20]byte
	Pubkey  []byte
}

// String encode with version byte and 4 byte double-sha checksum
func (a *Address) String() string {
	ad := make([]byte, 25)
	ad[0] = a.Version
	copy(ad[1:21], a.Hash160[:])
	sh := common.Sha2Sum(ad[0:21])
	copy(ad[21:25], sh[:4])
	return base58.Encode(ad)
}

// PubKeyToAddress hash a public key down to its address form
func PubKeyToAddress(in []byte) *Address {
	a := new(Address)
	a.Pubkey = make([]byte, len(in))
	copy(a.Pubkey, in)
	a.Version = 0
	copy(a.Hash160[:], common.Sha2Sum(in)[:20])
	return a
}

// ExecAddress the address owned by a named executor, cached
func ExecAddress(name string) string {
	if value, ok := execAddressCache.Get(name); ok {
		return value.(string)
	}
	addr := PubKeyToAddress(execPubKey(name)).String()
	execAddressCache.Add(name, addr)
	return addr
}

func execPubKey(name string) []byte {
	if len(name) > MaxExecNameLength {
		panic("name too long")
	}
	buf := make([]byte, 0, len(addrSeed)+len(name))
	buf = append(buf, addrSeed...)
	buf = append(buf, []byte(name)...)
	return common.Sha2Sum(buf)
}

// GameAddress the deterministic record address for (creator, nonce).
// Reproducible by any client from the same inputs.
func GameAddress(creator string, nonce int64) string {
	key := creator + ":" + strconv.FormatInt(nonce, 10)
	if value, ok := gameAddressCache.Get(key); ok {
		return value.(string)
	}
	buf := make([]byte, 0, 4+len(creator)+8)
	buf = append(buf, []byte("game")...)
	buf = append(buf, []byte(creator)...)
	buf = append(buf, le64(nonce)...)
	addr := PubKeyToAddress(common.Sha2Sum(buf)).String()
	gameAddressCache.Add(key, addr)
	return addr
}

// VaultAddress the record owned custody holding for a token kind wager,
// keyed by (game record, asset kind)
func VaultAddress(gameID, mint string) string {
	buf := make([]byte, 0, 5+len(gameID)+len(mint))
	buf = append(buf, []byte("vault")...)
	buf = append(buf, []byte(gameID)...)
	buf = append(buf, []byte(mint)...)
	return PubKeyToAddress(common.Sha2Sum(buf)).String()
}

// CheckAddress verify base58 form, length and checksum, cached
func CheckAddress(addr string) (e error) {
	if value, ok := checkAddressCache.Get(addr); ok {
		if value == nil {
			return nil
		}
		return value.(error)
	}
	defer func() {
		if e == nil {
			checkAddressCache.Add(addr, nil)
		} else {
			checkAddressCache.Add(addr, e)
		}
	}()
	dec := base58.Decode(addr)
	if len(dec) == 0 {
		e = errors.New("cannot decode b58 string '" + addr + "'")
		return
	}
	if len(dec) != 25 {
		e = errors.New("address length is not 25 bytes")
		return
	}
	sh := common.Sha2Sum(dec[0:21])
	if !bytes.Equal(sh[:4], dec[21:25]) {
		e = errors.New("address checksum error")
		return
	}
	return nil
}

func le64(n int64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(uint64(n) >> uint(8*i))
	}
	return b
}
