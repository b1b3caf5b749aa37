package types

import (
	"crypto/sha256"
)

// wager action ty
const (
	WagerActionCreate = int32(iota + 1)
	WagerActionJoin
	WagerActionResolve
	WagerActionCancel
	WagerActionUpdateResolver
)

// WagerX executor name
const WagerX = "wager"

// WagerCreate opens a wager. Mint == "" selects the native coin. Resolver
// may be left empty to default to the creator.
type WagerCreate struct {
	Mint      string `json:"mint"`
	Wager     int64  `json:"wager"`
	PayoutBps int32  `json:"payoutBps"`
	ExpiryTs  int64  `json:"expiryTs"`
	Resolver  string `json:"resolver"`
	DevWallet string `json:"devWallet"`
	Nonce     int64  `json:"nonce"`
}

// WagerJoin second participant deposits the matching stake
type WagerJoin struct {
	GameID string `json:"gameId"`
}

// WagerResolve resolver declares the winner. WinnerAccount and DevAccount
// are the payout destinations and must match the declared winner and the
// game's dev wallet; empty means "use the identity on the record".
type WagerResolve struct {
	GameID        string `json:"gameId"`
	Winner        string `json:"winner"`
	WinnerAccount string `json:"winnerAccount"`
	DevAccount    string `json:"devAccount"`
}

// WagerCancel expiry refund. CreatorAccount must match the record's creator.
// Player2Account, when supplied on a Ready game, must match player2 and
// triggers the second refund.
type WagerCancel struct {
	GameID         string `json:"gameId"`
	CreatorAccount string `json:"creatorAccount"`
	Player2Account string `json:"player2Account"`
}

// WagerUpdateResolver creator reassigns the resolver while still Open
type WagerUpdateResolver struct {
	GameID      string `json:"gameId"`
	NewResolver string `json:"newResolver"`
}

// WagerAction payload union, exactly one branch set according to Ty
type WagerAction struct {
	Ty             int32                `json:"ty"`
	Create         *WagerCreate         `json:"create,omitempty"`
	Join           *WagerJoin           `json:"join,omitempty"`
	Resolve        *WagerResolve        `json:"resolve,omitempty"`
	Cancel         *WagerCancel         `json:"cancel,omitempty"`
	UpdateResolver *WagerUpdateResolver `json:"updateResolver,omitempty"`
}

func (a *WagerAction) GetCreate() *WagerCreate {
	if a == nil {
		return nil
	}
	return a.Create
}

func (a *WagerAction) GetJoin() *WagerJoin {
	if a == nil {
		return nil
	}
	return a.Join
}

func (a *WagerAction) GetResolve() *WagerResolve {
	if a == nil {
		return nil
	}
	return a.Resolve
}

func (a *WagerAction) GetCancel() *WagerCancel {
	if a == nil {
		return nil
	}
	return a.Cancel
}

func (a *WagerAction) GetUpdateResolver() *WagerUpdateResolver {
	if a == nil {
		return nil
	}
	return a.UpdateResolver
}

// Transaction one signed operation submitted to the executor. Signature
// verification belongs to the surrounding runtime; From is the verified
// signer identity by the time Exec sees it.
type Transaction struct {
	Execer  []byte `json:"execer"`
	Payload []byte `json:"payload"`
	From    string `json:"from"`
	Nonce   int64  `json:"nonce"`
}

// Hash content hash, used as the receipt bookkeeping id
func (tx *Transaction) Hash() []byte {
	h := sha256.New()
	h.Write(tx.Execer)
	h.Write(tx.Payload)
	h.Write([]byte(tx.From))
	var b [8]byte
	n := tx.Nonce
	for i := 0; i < 8; i++ {
		b[i] = byte(n >> uint(8*i))
	}
	h.Write(b[:])
	return h.Sum(nil)
}
