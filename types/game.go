package types

import "math"

// game lifecycle states. Expired is reserved; no transition assigns it,
// expiry instead gates join and cancel against the block clock.
const (
	GameStatusOpen = int32(iota + 1)
	GameStatusReady
	GameStatusPaid
	GameStatusCanceled
	GameStatusExpired
)

// BpsDenominator payout shares are expressed in basis points
const BpsDenominator = int64(10000)

// Game the persistent unit of state for one wager.
// The zero value of Player2 / Mint is the sentinel identity: an unset
// second player and the native asset kind respectively.
type Game struct {
	GameID    string `json:"gameId"`
	Creator   string `json:"creator"`
	Player1   string `json:"player1"`
	Player2   string `json:"player2"`
	Resolver  string `json:"resolver"`
	DevWallet string `json:"devWallet"`
	Mint      string `json:"mint"`
	Wager     int64  `json:"wager"`
	PayoutBps int32  `json:"payoutBps"`
	Status    int32  `json:"status"`
	ExpiryTs  int64  `json:"expiryTs"`
	Nonce     int64  `json:"nonce"`

	CreateTime int64 `json:"createTime"`
	JoinTime   int64 `json:"joinTime"`
	CloseTime  int64 `json:"closeTime"`

	Winner       string `json:"winner"`
	WinnerAmount int64  `json:"winnerAmount"`
	FeeAmount    int64  `json:"feeAmount"`
	CancelReason string `json:"cancelReason"`

	// ordering keys for the local index, height*MaxTxsPerBlock+txindex
	Index     int64 `json:"index"`
	PrevIndex int64 `json:"prevIndex"`
}

// IsNative true when the wager is denominated in the native coin
func (g *Game) IsNative() bool {
	return g.Mint == ""
}

// IsExpired the deadline check shared by join and cancel
func (g *Game) IsExpired(blocktime int64) bool {
	return blocktime >= g.ExpiryTs
}

func (g *Game) CanJoin() bool {
	return g.Status == GameStatusOpen && g.Player2 == ""
}

func (g *Game) CanResolve() bool {
	return g.Status == GameStatusReady
}

func (g *Game) CanCancel(blocktime int64) bool {
	return g.Status == GameStatusOpen && g.IsExpired(blocktime)
}

// CalcPayouts splits the pot. winnerAmount is floored, feeAmount takes the
// remainder, so the two always sum to exactly wager*2.
func (g *Game) CalcPayouts() (winnerAmount, feeAmount int64, err error) {
	pot, err := SafeMul(g.Wager, 2)
	if err != nil {
		return 0, 0, err
	}
	gross, err := SafeMul(pot, int64(g.PayoutBps))
	if err != nil {
		return 0, 0, err
	}
	winnerAmount = gross / BpsDenominator
	feeAmount, err = SafeSub(pot, winnerAmount)
	if err != nil {
		return 0, 0, err
	}
	return winnerAmount, feeAmount, nil
}

// SafeMul overflow checked multiply for amounts
func SafeMul(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, ErrMathOverflow
	}
	if a != 0 && b > math.MaxInt64/a {
		return 0, ErrMathOverflow
	}
	return a * b, nil
}

// SafeAdd overflow checked add for amounts
func SafeAdd(a, b int64) (int64, error) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, ErrMathOverflow
	}
	return a + b, nil
}

// SafeSub underflow checked subtract for amounts
func SafeSub(a, b int64) (int64, error) {
	if b < 0 || a < b {
		return 0, ErrMathOverflow
	}
	return a - b, nil
}
