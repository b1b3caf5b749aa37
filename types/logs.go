package types

// receipt log ty
const (
	TyLogTransfer = int64(3)

	TyLogGameCreated     = int64(711)
	TyLogGameJoined      = int64(712)
	TyLogGameResolved    = int64(713)
	TyLogGameCanceled    = int64(714)
	TyLogResolverUpdated = int64(715)
	TyLogWagerStatus     = int64(716)
)

// ReceiptGameCreated emitted once per CreateGame with the public terms
type ReceiptGameCreated struct {
	GameID    string `json:"gameId"`
	Creator   string `json:"creator"`
	Mint      string `json:"mint"`
	Wager     int64  `json:"wager"`
	PayoutBps int32  `json:"payoutBps"`
	ExpiryTs  int64  `json:"expiryTs"`
}

// ReceiptGameJoined emitted once per JoinGame
type ReceiptGameJoined struct {
	GameID  string `json:"gameId"`
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

// ReceiptGameResolved emitted once per ResolveGame with both amounts
type ReceiptGameResolved struct {
	GameID       string `json:"gameId"`
	Winner       string `json:"winner"`
	WinnerAmount int64  `json:"winnerAmount"`
	FeeAmount    int64  `json:"feeAmount"`
}

// ReceiptGameCanceled emitted once per CancelGame
type ReceiptGameCanceled struct {
	GameID string `json:"gameId"`
	Reason string `json:"reason"`
}

// ReceiptResolverUpdated emitted once per UpdateResolver
type ReceiptResolverUpdated struct {
	GameID       string `json:"gameId"`
	PrevResolver string `json:"prevResolver"`
	Resolver     string `json:"resolver"`
}

// ReceiptWagerStatus the status transition record consumed by the local
// indexer; one per state-changing operation
type ReceiptWagerStatus struct {
	GameID     string `json:"gameId"`
	Status     int32  `json:"status"`
	PrevStatus int32  `json:"prevStatus"`
	Addr       string `json:"addr"`
	CreateAddr string `json:"createAddr"`
	JoinAddr   string `json:"joinAddr"`
	Index      int64  `json:"index"`
	PrevIndex  int64  `json:"prevIndex"`
}

// ReceiptAccountTransfer before and after images of one balance move
type ReceiptAccountTransfer struct {
	Prev    *Account `json:"prev"`
	Current *Account `json:"current"`
}

// WagerRecord local index value, resolves back to the full record
type WagerRecord struct {
	GameID string `json:"gameId"`
	Index  int64  `json:"index"`
}

// ReplyGame single game query response
type ReplyGame struct {
	Game *Game `json:"game"`
}

// ReplyGameList batched game query response
type ReplyGameList struct {
	Games []*Game `json:"games"`
}
