package executor

// state machine and fund movement for a single game record:
//
//	Open --(join, before expiry)--> Ready --(resolve, by resolver)--> Paid
//	Open --(cancel, after expiry, unjoined)--> Canceled
//	Ready --(cancel, after expiry, unresolved)--> Canceled
//	Open --(update resolver)--> Open
//
// Paid and Canceled are terminal. Expired is representable but unreachable.

import (
	"github.com/easywager/easywager/account"
	"github.com/easywager/easywager/common/address"
	dbm "github.com/easywager/easywager/common/db"
	"github.com/easywager/easywager/types"
)

// cancel reasons recorded on the receipt
const (
	reasonNoSecondPlayer = "Expired without second player"
	reasonNoResolution   = "Expired without resolution"
)

// Action one operation bound to its transactional statedb and environment.
// blocktime is read once when the action is built.
type Action struct {
	db        dbm.KV
	txhash    []byte
	fromaddr  string
	blocktime int64
	height    int64
	execaddr  string
	cfg       *types.Config
	index     int
}

// NewAction bind tx and env to a write buffer over the wager statedb
func NewAction(w *Wager, db dbm.KV, tx *types.Transaction, index int) *Action {
	return &Action{
		db:        db,
		txhash:    tx.Hash(),
		fromaddr:  tx.From,
		blocktime: w.blocktime,
		height:    w.height,
		execaddr:  address.ExecAddress(types.WagerX),
		cfg:       w.cfg,
		index:     index,
	}
}

func (action *Action) heightIndex() int64 {
	return action.height*types.MaxTxsPerBlock + int64(action.index)
}

// assetAccount the value mover for one asset kind, chosen once per record:
// native coin ledger for the sentinel mint, token ledger otherwise
func (action *Action) assetAccount(mint string) (*account.DB, error) {
	if mint == "" {
		return account.NewCoinsAccount().SetDB(action.db), nil
	}
	acc, err := account.NewTokenAccount(mint)
	if err != nil {
		return nil, types.ErrInvalidTokenAccount
	}
	return acc.SetDB(action.db), nil
}

// custodyAddress where the pot sits. A native game's record address holds
// the balance directly; a token game gets a record-owned vault keyed by
// (game, mint). Only the handlers in this file may debit either.
func custodyAddress(game *types.Game) string {
	if game.IsNative() {
		return game.GameID
	}
	return address.VaultAddress(game.GameID, game.Mint)
}

func (action *Action) readGame(id string) (*types.Game, error) {
	data, err := action.db.Get(Key(id))
	if err != nil {
		if err == dbm.ErrNotFoundInDb {
			return nil, types.ErrGameNotFound
		}
		return nil, err
	}
	var game types.Game
	err = types.Decode(data, &game)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (action *Action) saveGame(game *types.Game) *types.KeyValue {
	value := types.Encode(game)
	err := action.db.Set(Key(game.GameID), value)
	if err != nil {
		panic(err)
	}
	return &types.KeyValue{Key: Key(game.GameID), Value: value}
}

// statusLog the transition record the local indexer consumes
func (action *Action) statusLog(game *types.Game, prevStatus int32) *types.ReceiptLog {
	r := &types.ReceiptWagerStatus{
		GameID:     game.GameID,
		Status:     game.Status,
		PrevStatus: prevStatus,
		Addr:       action.fromaddr,
		CreateAddr: game.Creator,
		JoinAddr:   game.Player2,
		Index:      game.Index,
		PrevIndex:  game.PrevIndex,
	}
	return &types.ReceiptLog{Ty: types.TyLogWagerStatus, Log: types.Encode(r)}
}

// GameCreate open a wager. Terms are fixed here; no funds move.
func (action *Action) GameCreate(create *types.WagerCreate) (*types.Receipt, error) {
	if !action.cfg.CheckWager(create.Wager) {
		wlog.Error("GameCreate", "addr", action.fromaddr, "wager", create.Wager, "err", types.ErrInvalidWagerAmount)
		return nil, types.ErrInvalidWagerAmount
	}
	if create.PayoutBps < 1 || create.PayoutBps > 9999 {
		wlog.Error("GameCreate", "addr", action.fromaddr, "payoutBps", create.PayoutBps, "err", types.ErrInvalidPayoutBps)
		return nil, types.ErrInvalidPayoutBps
	}
	if create.ExpiryTs <= action.blocktime {
		wlog.Error("GameCreate", "addr", action.fromaddr, "expiryTs", create.ExpiryTs, "err", types.ErrInvalidExpiryTime)
		return nil, types.ErrInvalidExpiryTime
	}
	if create.DevWallet == "" || address.CheckAddress(create.DevWallet) != nil {
		wlog.Error("GameCreate", "addr", action.fromaddr, "devWallet", create.DevWallet, "err", types.ErrInvalidDevWallet)
		return nil, types.ErrInvalidDevWallet
	}
	resolver := create.Resolver
	if resolver == "" {
		resolver = action.fromaddr
	} else if address.CheckAddress(resolver) != nil {
		return nil, types.ErrInvalidAddress
	}
	if create.Mint != "" {
		// the token ledger rejects malformed symbols up front
		if _, err := action.assetAccount(create.Mint); err != nil {
			wlog.Error("GameCreate", "addr", action.fromaddr, "mint", create.Mint, "err", err)
			return nil, err
		}
	}
	gameID := address.GameAddress(action.fromaddr, create.Nonce)
	if _, err := action.readGame(gameID); err == nil {
		wlog.Error("GameCreate", "addr", action.fromaddr, "id", gameID, "err", types.ErrGameExists)
		return nil, types.ErrGameExists
	}

	game := &types.Game{
		GameID:     gameID,
		Creator:    action.fromaddr,
		Player1:    action.fromaddr,
		Player2:    "",
		Resolver:   resolver,
		DevWallet:  create.DevWallet,
		Mint:       create.Mint,
		Wager:      create.Wager,
		PayoutBps:  create.PayoutBps,
		Status:     types.GameStatusOpen,
		ExpiryTs:   create.ExpiryTs,
		Nonce:      create.Nonce,
		CreateTime: action.blocktime,
		Index:      action.heightIndex(),
	}

	var logs []*types.ReceiptLog
	var kv []*types.KeyValue
	kv = append(kv, action.saveGame(game))
	created := &types.ReceiptGameCreated{
		GameID:    game.GameID,
		Creator:   game.Creator,
		Mint:      game.Mint,
		Wager:     game.Wager,
		PayoutBps: game.PayoutBps,
		ExpiryTs:  game.ExpiryTs,
	}
	logs = append(logs, &types.ReceiptLog{Ty: types.TyLogGameCreated, Log: types.Encode(created)})
	logs = append(logs, action.statusLog(game, 0))
	return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
}

// GameJoin second participant deposits. Both stakes land in custody here,
// through the same mover and in identical amounts, so Ready always means
// the full pot is escrowed.
func (action *Action) GameJoin(join *types.WagerJoin) (*types.Receipt, error) {
	game, err := action.readGame(join.GameID)
	if err != nil {
		wlog.Error("GameJoin", "addr", action.fromaddr, "id", join.GameID, "err", err)
		return nil, err
	}
	if !game.CanJoin() {
		wlog.Error("GameJoin", "addr", action.fromaddr, "id", game.GameID, "err", types.ErrGameNotOpen)
		return nil, types.ErrGameNotOpen
	}
	if game.IsExpired(action.blocktime) {
		wlog.Error("GameJoin", "addr", action.fromaddr, "id", game.GameID, "err", types.ErrGameNotExpired)
		return nil, types.ErrGameNotExpired
	}
	if action.fromaddr == game.Player1 {
		wlog.Error("GameJoin", "addr", action.fromaddr, "id", game.GameID, "err", types.ErrCannotJoinOwnGame)
		return nil, types.ErrCannotJoinOwnGame
	}
	acc, err := action.assetAccount(game.Mint)
	if err != nil {
		return nil, err
	}
	custody := custodyAddress(game)

	receiptJoin, err := acc.Transfer(action.fromaddr, custody, game.Wager)
	if err != nil {
		wlog.Error("GameJoin.Transfer", "addr", action.fromaddr, "id", game.GameID, "amount", game.Wager, "err", err)
		return nil, err
	}
	receiptStake, err := acc.Transfer(game.Player1, custody, game.Wager)
	if err != nil {
		wlog.Error("GameJoin.Transfer", "addr", game.Player1, "id", game.GameID, "amount", game.Wager, "err", err)
		return nil, err
	}

	prevStatus := game.Status
	game.Player2 = action.fromaddr
	game.Status = types.GameStatusReady
	game.JoinTime = action.blocktime
	game.PrevIndex = game.Index
	game.Index = action.heightIndex()

	var logs []*types.ReceiptLog
	var kv []*types.KeyValue
	kv = append(kv, action.saveGame(game))
	kv = append(kv, receiptJoin.KV...)
	kv = append(kv, receiptStake.KV...)
	joined := &types.ReceiptGameJoined{GameID: game.GameID, Player1: game.Player1, Player2: game.Player2}
	logs = append(logs, &types.ReceiptLog{Ty: types.TyLogGameJoined, Log: types.Encode(joined)})
	logs = append(logs, receiptJoin.Logs...)
	logs = append(logs, receiptStake.Logs...)
	logs = append(logs, action.statusLog(game, prevStatus))
	return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
}

// GameResolve resolver declares the winner; the pot splits by payout bps
// with the fee remainder to the dev wallet, winner first.
func (action *Action) GameResolve(resolve *types.WagerResolve) (*types.Receipt, error) {
	game, err := action.readGame(resolve.GameID)
	if err != nil {
		wlog.Error("GameResolve", "addr", action.fromaddr, "id", resolve.GameID, "err", err)
		return nil, err
	}
	if !game.CanResolve() {
		wlog.Error("GameResolve", "addr", action.fromaddr, "id", game.GameID, "status", game.Status, "err", types.ErrGameNotReady)
		return nil, types.ErrGameNotReady
	}
	if action.fromaddr != game.Resolver {
		wlog.Error("GameResolve", "addr", action.fromaddr, "id", game.GameID, "err", types.ErrUnauthorizedResolver)
		return nil, types.ErrUnauthorizedResolver
	}
	if resolve.Winner != game.Player1 && resolve.Winner != game.Player2 {
		wlog.Error("GameResolve", "addr", action.fromaddr, "id", game.GameID, "winner", resolve.Winner, "err", types.ErrInvalidWinner)
		return nil, types.ErrInvalidWinner
	}
	winnerAccount := resolve.WinnerAccount
	if winnerAccount == "" {
		winnerAccount = resolve.Winner
	}
	if winnerAccount != resolve.Winner {
		return nil, types.ErrInvalidWinner
	}
	devAccount := resolve.DevAccount
	if devAccount == "" {
		devAccount = game.DevWallet
	}
	if devAccount != game.DevWallet {
		return nil, types.ErrInvalidDevWallet
	}

	winnerAmount, feeAmount, err := game.CalcPayouts()
	if err != nil {
		wlog.Error("GameResolve.CalcPayouts", "id", game.GameID, "wager", game.Wager, "err", err)
		return nil, err
	}
	acc, err := action.assetAccount(game.Mint)
	if err != nil {
		return nil, err
	}
	custody := custodyAddress(game)

	// a 1 bps share of a tiny pot can floor to zero; the ledger rejects
	// zero-amount moves, so such a transfer is simply elided
	receiptWin := &types.Receipt{Ty: types.ExecOk}
	if winnerAmount > 0 {
		receiptWin, err = acc.Transfer(custody, winnerAccount, winnerAmount)
		if err != nil {
			wlog.Error("GameResolve.Transfer", "id", game.GameID, "to", winnerAccount, "amount", winnerAmount, "err", err)
			return nil, err
		}
	}
	receiptFee, err := acc.Transfer(custody, devAccount, feeAmount)
	if err != nil {
		wlog.Error("GameResolve.Transfer", "id", game.GameID, "to", devAccount, "amount", feeAmount, "err", err)
		return nil, err
	}

	prevStatus := game.Status
	game.Status = types.GameStatusPaid
	game.Winner = resolve.Winner
	game.WinnerAmount = winnerAmount
	game.FeeAmount = feeAmount
	game.CloseTime = action.blocktime
	game.PrevIndex = game.Index
	game.Index = action.heightIndex()

	var logs []*types.ReceiptLog
	var kv []*types.KeyValue
	kv = append(kv, action.saveGame(game))
	kv = append(kv, receiptWin.KV...)
	kv = append(kv, receiptFee.KV...)
	resolved := &types.ReceiptGameResolved{
		GameID:       game.GameID,
		Winner:       game.Winner,
		WinnerAmount: winnerAmount,
		FeeAmount:    feeAmount,
	}
	logs = append(logs, &types.ReceiptLog{Ty: types.TyLogGameResolved, Log: types.Encode(resolved)})
	logs = append(logs, receiptWin.Logs...)
	logs = append(logs, receiptFee.Logs...)
	logs = append(logs, action.statusLog(game, prevStatus))
	return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
}

// GameCancel expiry refund path, callable by creator or resolver. An Open
// game simply closes; a Ready game refunds each deposited stake.
func (action *Action) GameCancel(cancel *types.WagerCancel) (*types.Receipt, error) {
	game, err := action.readGame(cancel.GameID)
	if err != nil {
		wlog.Error("GameCancel", "addr", action.fromaddr, "id", cancel.GameID, "err", err)
		return nil, err
	}
	if action.fromaddr != game.Creator && action.fromaddr != game.Resolver {
		wlog.Error("GameCancel", "addr", action.fromaddr, "id", game.GameID, "err", types.ErrUnauthorizedCreator)
		return nil, types.ErrUnauthorizedCreator
	}
	if cancel.CreatorAccount != "" && cancel.CreatorAccount != game.Creator {
		wlog.Error("GameCancel", "addr", action.fromaddr, "id", game.GameID, "err", types.ErrUnauthorizedCreator)
		return nil, types.ErrUnauthorizedCreator
	}

	var logs []*types.ReceiptLog
	var kv []*types.KeyValue
	var reason string

	switch game.Status {
	case types.GameStatusOpen:
		if !game.IsExpired(action.blocktime) {
			wlog.Error("GameCancel", "addr", action.fromaddr, "id", game.GameID, "err", types.ErrGameNotExpired)
			return nil, types.ErrGameNotExpired
		}
		if game.Player2 != "" {
			return nil, types.ErrGameFull
		}
		// no funds have moved on an Open game, so nothing to refund
		reason = reasonNoSecondPlayer
	case types.GameStatusReady:
		if !game.IsExpired(action.blocktime) {
			wlog.Error("GameCancel", "addr", action.fromaddr, "id", game.GameID, "err", types.ErrGameNotExpired)
			return nil, types.ErrGameNotExpired
		}
		reason = reasonNoResolution
		acc, err := action.assetAccount(game.Mint)
		if err != nil {
			return nil, err
		}
		custody := custodyAddress(game)

		receipt1, err := acc.Transfer(custody, game.Player1, game.Wager)
		if err != nil {
			wlog.Error("GameCancel.Transfer", "id", game.GameID, "to", game.Player1, "amount", game.Wager, "err", err)
			return nil, err
		}
		kv = append(kv, receipt1.KV...)
		logs = append(logs, receipt1.Logs...)

		if cancel.Player2Account != "" {
			if cancel.Player2Account != game.Player2 {
				wlog.Error("GameCancel", "id", game.GameID, "player2Account", cancel.Player2Account, "err", types.ErrInvalidWinner)
				return nil, types.ErrInvalidWinner
			}
			receipt2, err := acc.Transfer(custody, game.Player2, game.Wager)
			if err != nil {
				wlog.Error("GameCancel.Transfer", "id", game.GameID, "to", game.Player2, "amount", game.Wager, "err", err)
				return nil, err
			}
			kv = append(kv, receipt2.KV...)
			logs = append(logs, receipt2.Logs...)
		}
	default:
		// Paid, Canceled and Expired records are terminal
		wlog.Error("GameCancel", "addr", action.fromaddr, "id", game.GameID, "status", game.Status, "err", types.ErrInvalidStateTransition)
		return nil, types.ErrInvalidStateTransition
	}

	prevStatus := game.Status
	game.Status = types.GameStatusCanceled
	game.CancelReason = reason
	game.CloseTime = action.blocktime
	game.PrevIndex = game.Index
	game.Index = action.heightIndex()

	kv = append(kv, action.saveGame(game))
	canceled := &types.ReceiptGameCanceled{GameID: game.GameID, Reason: reason}
	logs = append(logs, &types.ReceiptLog{Ty: types.TyLogGameCanceled, Log: types.Encode(canceled)})
	logs = append(logs, action.statusLog(game, prevStatus))
	return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
}

// GameUpdateResolver creator reassigns the resolver while the game is Open.
// No transition, no funds move.
func (action *Action) GameUpdateResolver(update *types.WagerUpdateResolver) (*types.Receipt, error) {
	game, err := action.readGame(update.GameID)
	if err != nil {
		wlog.Error("GameUpdateResolver", "addr", action.fromaddr, "id", update.GameID, "err", err)
		return nil, err
	}
	if action.fromaddr != game.Creator {
		wlog.Error("GameUpdateResolver", "addr", action.fromaddr, "id", game.GameID, "err", types.ErrUnauthorizedCreator)
		return nil, types.ErrUnauthorizedCreator
	}
	if game.Status != types.GameStatusOpen {
		wlog.Error("GameUpdateResolver", "addr", action.fromaddr, "id", game.GameID, "status", game.Status, "err", types.ErrCannotUpdateResolverAfterDeposits)
		return nil, types.ErrCannotUpdateResolverAfterDeposits
	}
	if update.NewResolver == "" {
		return nil, types.ErrUnauthorizedResolver
	}
	if address.CheckAddress(update.NewResolver) != nil {
		return nil, types.ErrInvalidAddress
	}

	prev := game.Resolver
	game.Resolver = update.NewResolver

	var logs []*types.ReceiptLog
	var kv []*types.KeyValue
	kv = append(kv, action.saveGame(game))
	updated := &types.ReceiptResolverUpdated{GameID: game.GameID, PrevResolver: prev, Resolver: game.Resolver}
	logs = append(logs, &types.ReceiptLog{Ty: types.TyLogResolverUpdated, Log: types.Encode(updated)})
	return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
}
