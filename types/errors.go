package types

import "errors"

// state gating
var (
	ErrGameNotOpen            = errors.New("ErrGameNotOpen")
	ErrGameNotReady           = errors.New("ErrGameNotReady")
	ErrGameAlreadyResolved    = errors.New("ErrGameAlreadyResolved")
	ErrGameNotExpired         = errors.New("ErrGameNotExpired")
	ErrGameFull               = errors.New("ErrGameFull")
	ErrInvalidStateTransition = errors.New("ErrInvalidStateTransition")
)

// input validation
var (
	ErrInvalidPayoutBps   = errors.New("ErrInvalidPayoutBps")
	ErrInvalidWagerAmount = errors.New("ErrInvalidWagerAmount")
	ErrInvalidExpiryTime  = errors.New("ErrInvalidExpiryTime")
	ErrInvalidDevWallet   = errors.New("ErrInvalidDevWallet")
)

// authorization
var (
	ErrUnauthorizedResolver              = errors.New("ErrUnauthorizedResolver")
	ErrUnauthorizedCreator               = errors.New("ErrUnauthorizedCreator")
	ErrCannotJoinOwnGame                 = errors.New("ErrCannotJoinOwnGame")
	ErrCannotUpdateResolverAfterDeposits = errors.New("ErrCannotUpdateResolverAfterDeposits")
)

// identity and asset mismatch
var (
	ErrInvalidWinner       = errors.New("ErrInvalidWinner")
	ErrTokenMintMismatch   = errors.New("ErrTokenMintMismatch")
	ErrInvalidTokenAccount = errors.New("ErrInvalidTokenAccount")
)

// arithmetic
var (
	ErrMathOverflow = errors.New("ErrMathOverflow")
)

// ledger and plumbing
var (
	ErrNoBalance        = errors.New("ErrNoBalance")
	ErrAmount           = errors.New("ErrAmount")
	ErrSendSameToRecv   = errors.New("ErrSendSameToRecv")
	ErrGameNotFound     = errors.New("ErrGameNotFound")
	ErrGameExists       = errors.New("ErrGameExists")
	ErrActionNotSupport = errors.New("ErrActionNotSupport")
	ErrInvalidParam     = errors.New("ErrInvalidParam")
	ErrSymbolNotAllow   = errors.New("ErrSymbolNotAllow")
	ErrInvalidAddress   = errors.New("ErrInvalidAddress")
)
